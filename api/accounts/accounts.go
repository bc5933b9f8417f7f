// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

type Accounts struct {
	chain        *chain.Chain
	stateCreator *state.Creator
}

func New(chain *chain.Chain, stateCreator *state.Creator) *Accounts {
	return &Accounts{
		chain,
		stateCreator,
	}
}

func (a *Accounts) getAccount(addr meter.Address) (*Account, error) {
	state, err := a.stateCreator.NewState(a.chain.BestBlock().Header().StateRoot())
	if err != nil {
		return nil, err
	}
	acc := convertAccount(state.GetBalance(addr), state.GetMaster(addr))
	if err := state.Err(); err != nil {
		return nil, err
	}
	return acc, nil
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
