// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

var (
	errKnownTx           = errors.New("known tx")
	errTxNotAdoptableNow = errors.New("tx not adoptable now")
)

type badTxError struct {
	msg string
}

func (e badTxError) Error() string {
	return "bad tx: " + e.msg
}

// IsBadTx returns whether the error means the tx itself is invalid.
func IsBadTx(err error) bool {
	_, ok := errors.Cause(err).(badTxError)
	return ok
}

// IsKnownTx returns whether the tx was already packed.
func IsKnownTx(err error) bool {
	return errors.Cause(err) == errKnownTx
}

// IsTxNotAdoptableNow returns whether the tx refers to a future block.
func IsTxNotAdoptableNow(err error) bool {
	return errors.Cause(err) == errTxNotAdoptableNow
}

// Flow the flow of packing a new block.
type Flow struct {
	packer       *Packer
	parentHeader *block.Header
	runtime      *runtime.Runtime
	processedTxs map[meter.Bytes32]bool // txID -> reverted
	txs          tx.Transactions
	receipts     tx.Receipts
}

func newFlow(
	packer *Packer,
	parentHeader *block.Header,
	runtime *runtime.Runtime,
) *Flow {
	return &Flow{
		packer:       packer,
		parentHeader: parentHeader,
		runtime:      runtime,
		processedTxs: make(map[meter.Bytes32]bool),
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parentHeader
}

// When the target time to do packing.
func (f *Flow) When() uint64 {
	return f.runtime.Context().Time
}

func (f *Flow) findTx(txID meter.Bytes32) (bool, error) {
	if _, ok := f.processedTxs[txID]; ok {
		return true, nil
	}
	return f.packer.chain.HasTransaction(txID)
}

// Adopt try to execute the given transaction.
// If the tx is valid and can be executed on current state (regardless of clause failure),
// it will be adopted by the new block.
func (f *Flow) Adopt(trx *tx.Transaction) error {
	switch {
	case trx.ChainTag() != f.packer.chain.Tag():
		return badTxError{"chain tag mismatch"}
	case f.runtime.Context().Number < trx.BlockRef().Number():
		return errTxNotAdoptableNow
	case trx.IsExpired(f.runtime.Context().Number):
		return badTxError{"expired"}
	}

	// check if tx already there
	if found, err := f.findTx(trx.ID()); err != nil {
		return err
	} else if found {
		return errKnownTx
	}

	checkpoint := f.runtime.State().NewCheckpoint()
	receipt, err := f.runtime.ExecuteTransaction(trx)
	if err != nil {
		// skip and revert state
		f.runtime.State().RevertTo(checkpoint)
		return badTxError{err.Error()}
	}
	f.processedTxs[trx.ID()] = receipt.Reverted
	f.receipts = append(f.receipts, receipt)
	f.txs = append(f.txs, trx)
	return nil
}

// Pack build the new block.
func (f *Flow) Pack() (*block.Block, *state.Stage, tx.Receipts, error) {
	if err := f.runtime.State().Err(); err != nil {
		return nil, nil, nil, errors.Wrap(err, "state")
	}

	stage := f.runtime.State().Stage()
	stateRoot, err := stage.Hash()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "stage")
	}

	builder := new(block.Builder).
		ParentID(f.parentHeader.ID()).
		Timestamp(f.runtime.Context().Time).
		ReceiptsRoot(f.receipts.RootHash()).
		StateRoot(stateRoot)

	for _, trx := range f.txs {
		builder.Transaction(trx)
	}
	return builder.Build(), stage, f.receipts, nil
}
