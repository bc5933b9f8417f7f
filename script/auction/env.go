// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/builtin/params"
	setypes "github.com/meterio/meter-auction/script/types"
)

type AuctionEnv struct {
	*setypes.ScriptEnv
	auction *Auction
}

func newEnv(a *Auction, senv *setypes.ScriptEnv) *AuctionEnv {
	return &AuctionEnv{ScriptEnv: senv, auction: a}
}

func (env *AuctionEnv) GetAuction() *Auction   { return env.auction }
func (env *AuctionEnv) Assets() *asset.Asset   { return builtin.Asset.Native(env.GetState()) }
func (env *AuctionEnv) Params() *params.Params { return builtin.Params.Native(env.GetState()) }
