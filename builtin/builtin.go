// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/builtin/params"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// Builtin module bindings.
var (
	Params = &paramsModule{meter.ParamsModuleAddr}
	Asset  = &assetModule{meter.AssetModuleAddr}
)

type (
	paramsModule struct{ Address meter.Address }
	assetModule  struct{ Address meter.Address }
)

func (p *paramsModule) Native(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (a *assetModule) Native(state *state.State) *asset.Asset {
	return asset.New(a.Address, state)
}
