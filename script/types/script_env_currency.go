// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// TransferCurrency moves amount of native currency between two accounts and logs it.
// Nothing is moved when the source balance is short.
func (env *ScriptEnv) TransferCurrency(from, to meter.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	state := env.GetState()
	if !state.SubBalance(from, amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v, needs %v", from, state.GetBalance(from), amount)
	}
	state.AddBalance(to, amount)
	env.AddTransfer(from, to, new(big.Int).Set(amount), meter.TokenCurrency)
	return nil
}

// LogAssetTransfer records a movement of asset units in the transfer log.
func (env *ScriptEnv) LogAssetTransfer(from, to meter.Address, amount uint64) {
	env.AddTransfer(from, to, new(big.Int).SetUint64(amount), meter.TokenAsset)
}
