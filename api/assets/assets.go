// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package assets

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// Mint json form of a mint.
type Mint struct {
	Mint      meter.Bytes32 `json:"mint"`
	Creator   meter.Address `json:"creator"`
	Name      string        `json:"name"`
	Supply    uint64        `json:"supply"`
	CreatedAt uint64        `json:"createdAt"`
}

// Holding json form of a holding.
type Holding struct {
	Address meter.Address `json:"address"`
	Owner   meter.Address `json:"owner"`
	Amount  uint64        `json:"amount"`
}

type Assets struct {
	chain        *chain.Chain
	stateCreator *state.Creator
}

func New(chain *chain.Chain, stateCreator *state.Creator) *Assets {
	return &Assets{
		chain,
		stateCreator,
	}
}

func (a *Assets) native() (*asset.Asset, *state.State, error) {
	state, err := a.stateCreator.NewState(a.chain.BestBlock().Header().StateRoot())
	if err != nil {
		return nil, nil, err
	}
	return builtin.Asset.Native(state), state, nil
}

func (a *Assets) handleGetMint(w http.ResponseWriter, req *http.Request) error {
	mint, err := meter.ParseBytes32(mux.Vars(req)["mint"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "mint"))
	}
	native, state, err := a.native()
	if err != nil {
		return err
	}
	info := native.GetMint(mint)
	if err := state.Err(); err != nil {
		return err
	}
	if info == nil {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, &Mint{
		Mint:      info.Mint,
		Creator:   info.Creator,
		Name:      info.Name,
		Supply:    info.Supply,
		CreatedAt: info.CreatedAt,
	})
}

func (a *Assets) handleGetHolding(w http.ResponseWriter, req *http.Request) error {
	mint, err := meter.ParseBytes32(mux.Vars(req)["mint"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "mint"))
	}
	owner, err := meter.ParseAddress(mux.Vars(req)["owner"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	native, state, err := a.native()
	if err != nil {
		return err
	}
	amount := native.Balance(mint, owner)
	if err := state.Err(); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Holding{
		Address: asset.HoldingAddress(mint, owner),
		Owner:   owner,
		Amount:  amount,
	})
}

func (a *Assets) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{mint}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetMint))
	sub.Path("/{mint}/holders/{owner}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetHolding))
}
