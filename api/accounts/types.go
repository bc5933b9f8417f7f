// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/meter"
)

// Account for marshal account
type Account struct {
	Balance math.HexOrDecimal256 `json:"balance"`
	Master  *meter.Address       `json:"master"`
	Custody bool                 `json:"custody"`
}

func convertAccount(balance *big.Int, master meter.Address) *Account {
	acc := &Account{Balance: math.HexOrDecimal256(*balance)}
	if !master.IsZero() {
		acc.Master = &master
		acc.Custody = true
	}
	return acc
}
