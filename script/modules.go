// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-auction/script/asset"
	"github.com/meterio/meter-auction/script/auction"
)

const (
	AUCTION_MODULE_NAME = string("auction")
	AUCTION_MODULE_ID   = uint32(1001)

	ASSET_MODULE_NAME = string("asset")
	ASSET_MODULE_ID   = uint32(1003)
)

func ModuleAuctionInit(se *ScriptEngine) *auction.Auction {
	a := auction.NewAuction()
	mod := &Module{
		modName:    AUCTION_MODULE_NAME,
		modID:      AUCTION_MODULE_ID,
		modHandler: a.Handle,
	}
	if err := se.modReg.Register(AUCTION_MODULE_ID, mod); err != nil {
		panic("register auction module failed")
	}

	se.logger.Info("started module", "name", mod.modName, "id", mod.modID)
	return a
}

func ModuleAssetInit(se *ScriptEngine) *asset.AssetModule {
	a := asset.NewAssetModule()
	mod := &Module{
		modName:    ASSET_MODULE_NAME,
		modID:      ASSET_MODULE_ID,
		modHandler: a.Handle,
	}
	if err := se.modReg.Register(ASSET_MODULE_ID, mod); err != nil {
		panic("register asset module failed")
	}

	se.logger.Info("started module", "name", mod.modName, "id", mod.modID)
	return a
}
