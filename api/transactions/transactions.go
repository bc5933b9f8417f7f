// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/packer"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

const (
	RecentTxLimit = 10
)

type Transactions struct {
	chain  *chain.Chain
	packer *packer.Packer
}

func New(chain *chain.Chain, packer *packer.Packer) *Transactions {
	return &Transactions{
		chain,
		packer,
	}
}

func (t *Transactions) getRawTransaction(txID meter.Bytes32) (*rawTransaction, error) {
	trx, meta, err := t.chain.GetTrunkTransaction(txID)
	if err != nil {
		if t.chain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	h, err := t.chain.GetBlockHeader(meta.BlockID)
	if err != nil {
		return nil, err
	}
	raw, err := rlp.EncodeToBytes(trx)
	if err != nil {
		return nil, err
	}
	return &rawTransaction{
		RawTx: RawTx{hexutil.Encode(raw)},
		Meta:  newTxMeta(h),
	}, nil
}

func (t *Transactions) getTransactionByID(txID meter.Bytes32) (*Transaction, error) {
	trx, meta, err := t.chain.GetTrunkTransaction(txID)
	if err != nil {
		if t.chain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	h, err := t.chain.GetBlockHeader(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return convertTransaction(trx, h)
}

// getTransactionReceiptByID get tx's receipt
func (t *Transactions) getTransactionReceiptByID(txID meter.Bytes32) (*Receipt, error) {
	trx, meta, err := t.chain.GetTrunkTransaction(txID)
	if err != nil {
		if t.chain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	receipt, _, err := t.chain.GetTransactionReceipt(txID)
	if err != nil {
		return nil, err
	}
	h, err := t.chain.GetBlockHeader(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return convertReceipt(receipt, h, trx)
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body SendBody
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var (
		trx *tx.Transaction
		err error
	)
	switch {
	case body.Raw != "":
		trx, err = RawTx{body.Raw}.decode()
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "raw"))
		}
	case body.Signature != "":
		trx, err = body.decode()
		if err != nil {
			return utils.BadRequest(err)
		}
	default:
		trx, err = body.decode()
		if err != nil {
			return utils.BadRequest(err)
		}
		return utils.WriteJSON(w, map[string]string{
			"signingHash": trx.SigningHash().String(),
		})
	}

	blk, receipt, err := t.packer.Submit(trx)
	if err != nil {
		if packer.IsBadTx(err) {
			return utils.BadRequest(err)
		}
		if packer.IsKnownTx(err) || packer.IsTxNotAdoptableNow(err) {
			return utils.Forbidden(err)
		}
		return err
	}
	return utils.WriteJSON(w, &SendResult{
		ID:           trx.ID(),
		Reverted:     receipt.Reverted,
		RevertReason: receipt.RevertReason,
		Meta:         newTxMeta(blk.Header()),
	})
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := meter.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	raw := req.URL.Query().Get("raw")
	if raw != "" && raw != "false" && raw != "true" {
		return utils.BadRequest(errors.WithMessage(errors.New("should be boolean"), "raw"))
	}
	if raw == "true" {
		trx, err := t.getRawTransaction(txID)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, trx)
	}
	trx, err := t.getTransactionByID(txID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, trx)
}

func (t *Transactions) handleGetTransactionReceiptByID(w http.ResponseWriter, req *http.Request) error {
	txID, err := meter.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := t.getTransactionReceiptByID(txID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (t *Transactions) handleGetRecentTransactions(w http.ResponseWriter, req *http.Request) error {
	recentTxs := make([]*Transaction, 0)
	best := t.chain.BestBlock()
	var err error
	for best.Header().Number() > 0 && len(recentTxs) < RecentTxLimit {
		header := best.Header()
		txs := best.Transactions()
		for i := len(txs) - 1; i >= 0 && len(recentTxs) < RecentTxLimit; i-- {
			converted, err := convertTransaction(txs[i], header)
			if err != nil {
				return err
			}
			recentTxs = append(recentTxs, converted)
		}
		best, err = t.chain.GetBlock(header.ParentID())
		if err != nil {
			return err
		}
	}
	return utils.WriteJSON(w, recentTxs)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods("POST").HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/recent").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(t.handleGetRecentTransactions))
	sub.Path("/{id}").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
	sub.Path("/{id}/receipt").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionReceiptByID))
}
