// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"math/big"
)

// Constants of the ledger.
const (
	BlockInterval uint64 = 10 // expected seconds between two blocks, used for clock drift checks.

	MaxTxClauses = 16

	FeeRateDenominator = 10000 // fee rates are expressed in basis points.
)

// Built-in module addresses.
var (
	ParamsModuleAddr  = BytesToAddress([]byte("params-module-address"))
	AuctionModuleAddr = BytesToAddress([]byte("auction-module-address"))
	AssetModuleAddr   = BytesToAddress([]byte("asset-module-address"))
)

// Keys of governance params.
var (
	KeyExecutorAddress      = BytesToBytes32([]byte("executor"))
	KeyPlatformFeeRate      = BytesToBytes32([]byte("platform-fee-rate"))
	KeyPlatformFeeRecipient = BytesToBytes32([]byte("platform-fee-recipient"))

	InitialPlatformFeeRate = big.NewInt(250) // 2.5%
)

// Token kinds of transfer logs.
const (
	TokenCurrency byte = 0
	TokenAsset    byte = 1
)
