// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// DevAccount account for development.
type DevAccount struct {
	Address    meter.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for solo mode.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
		"88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b",
		"fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0",
		"547fb081e73dc2e22b4aae5c60e2970b008ac4fc3073aebc27d41ace9c4f53e9",
		"c8c53657e41a8d669349fc287f57457bd746cb1fcfc38cf94d235deb2cfca81b",
		"87e0eba9c86c494d98353800571089f316740b0cb84c9a7cdf2fe5c9997c7966",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{meter.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevnetLaunchTime 'Wed May 16 2018 00:00:00 GMT+0800 (CST)'
const DevnetLaunchTime = uint64(1526400000)

// DevMintName names the asset minted to the first dev account at genesis.
const DevMintName = "devnet-asset"

// DevMintSupply is the supply of the dev mint.
const DevMintSupply = uint64(100)

// Config holds the governance params seeded at genesis.
type Config struct {
	FeeRate      *big.Int // basis points
	FeeRecipient meter.Address
}

// DefaultConfig charges the initial platform fee to the first dev account.
func DefaultConfig() Config {
	return Config{
		FeeRate:      new(big.Int).Set(meter.InitialPlatformFeeRate),
		FeeRecipient: DevAccounts()[0].Address,
	}
}

// NewDevnet create genesis for solo mode.
func NewDevnet(cfg Config) (*Genesis, error) {
	if cfg.FeeRate == nil || cfg.FeeRate.Sign() < 0 || cfg.FeeRate.Cmp(big.NewInt(meter.FeeRateDenominator)) > 0 {
		return nil, errors.New("fee rate must be within [0, 10000] basis points")
	}
	executor := DevAccounts()[0].Address

	builder := new(Builder).
		Timestamp(DevnetLaunchTime).
		State(func(state *state.State) error {
			bal, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
			for _, a := range DevAccounts() {
				state.SetBalance(a.Address, bal)
			}
			return nil
		}).
		State(func(state *state.State) error {
			params := builtin.Params.Native(state)
			params.SetAddress(meter.KeyExecutorAddress, executor)
			params.Set(meter.KeyPlatformFeeRate, cfg.FeeRate)
			params.SetAddress(meter.KeyPlatformFeeRecipient, cfg.FeeRecipient)
			return nil
		}).
		State(func(state *state.State) error {
			_, err := builtin.Asset.Native(state).CreateMint(executor, DevMintName, DevMintSupply, DevnetLaunchTime)
			return err
		})

	return newGenesis(builder, "devnet")
}

// MustNewDevnet same as NewDevnet with default config, panics on error.
func MustNewDevnet() *Genesis {
	g, err := NewDevnet(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return g
}
