// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

const maxHistory = 256

type Auctions struct {
	chain        *chain.Chain
	stateCreator *state.Creator
	logDB        *logdb.LogDB
}

func New(chain *chain.Chain, stateCreator *state.Creator, logDB *logdb.LogDB) *Auctions {
	return &Auctions{
		chain,
		stateCreator,
		logDB,
	}
}

func (a *Auctions) getAuction(addr meter.Address) (*Auction, error) {
	state, err := a.stateCreator.NewState(a.chain.BestBlock().Header().StateRoot())
	if err != nil {
		return nil, err
	}
	r := state.GetAuctionRecord(addr)
	if r == nil {
		return nil, state.Err()
	}
	var vaultAmount uint64
	if h := builtin.Asset.Native(state).GetHolding(r.Vault); h != nil {
		vaultAmount = h.Amount
	}
	auc := convertAuction(r, state.GetBalance(r.Escrow), vaultAmount)
	if err := state.Err(); err != nil {
		return nil, err
	}
	return auc, nil
}

func (a *Auctions) handleGetAuction(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	auc, err := a.getAuction(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, auc)
}

func (a *Auctions) handleGetHistory(w http.ResponseWriter, req *http.Request) error {
	addr, err := meter.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	opts, err := parseOptions(req)
	if err != nil {
		return utils.BadRequest(err)
	}
	events, err := a.logDB.AuctionHistory(req.Context(), meter.AuctionModuleAddr, addr, opts)
	if err != nil {
		return err
	}
	history := make([]*HistoryEvent, 0, len(events))
	for _, e := range events {
		h, err := convertHistoryEvent(e)
		if err != nil {
			return err
		}
		history = append(history, h)
	}
	return utils.WriteJSON(w, history)
}

func parseOptions(req *http.Request) (*logdb.Options, error) {
	query := req.URL.Query()
	opts := &logdb.Options{Limit: maxHistory}
	if s := query.Get("offset"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "offset")
		}
		opts.Offset = n
	}
	if s := query.Get("limit"); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "limit")
		}
		if n < opts.Limit {
			opts.Limit = n
		}
	}
	return opts, nil
}

func (a *Auctions) handleDerive(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	creator, err := meter.ParseAddress(query.Get("creator"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "creator"))
	}
	mint, err := meter.ParseBytes32(query.Get("mint"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "mint"))
	}
	seed, err := strconv.ParseUint(query.Get("seed"), 0, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "seed"))
	}
	return utils.WriteJSON(w, derive(creator, mint, seed))
}

func derive(creator meter.Address, mint meter.Bytes32, seed uint64) *Derived {
	addr := auction.AuctionAddress(creator, mint, seed)
	return &Derived{
		Auction:   addr,
		Authority: auction.AuthorityAddress(addr),
		Escrow:    auction.EscrowAddress(addr),
		Vault:     auction.VaultAddress(mint, addr),
	}
}

func (a *Auctions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/derive").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleDerive))
	sub.Path("/{address}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetAuction))
	sub.Path("/{address}/history").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(a.handleGetHistory))
}
