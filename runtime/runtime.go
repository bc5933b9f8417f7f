// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"log/slog"
	"math/big"
	"time"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/metric"
	"github.com/meterio/meter-auction/script"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

var (
	ErrNoRecipient         = errors.New("clause has no recipient")
	ErrCustodyAccount      = errors.New("custody account can only be moved by its module")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrScriptWithValue     = errors.New("script clause must not carry value")
)

// Output output of clause execution.
type Output struct {
	Data      []byte
	Events    tx.Events
	Transfers tx.Transfers
	Err       error // the clause failed, state of the whole tx is reverted.
}

// Runtime executes transactions against one state in one block context.
type Runtime struct {
	se     *script.ScriptEngine
	state  *state.State
	ctx    *xenv.BlockContext
	logger *slog.Logger
}

// New create a Runtime object.
func New(
	se *script.ScriptEngine,
	state *state.State,
	ctx *xenv.BlockContext,
) *Runtime {
	return &Runtime{
		se:     se,
		state:  state,
		ctx:    ctx,
		logger: slog.Default().With("pkg", "rt"),
	}
}

func (rt *Runtime) State() *state.State         { return rt.state }
func (rt *Runtime) Context() *xenv.BlockContext { return rt.ctx }

// ExecuteClause executes single clause.
func (rt *Runtime) ExecuteClause(clause *tx.Clause, txCtx *xenv.TransactionContext) *Output {
	if script.IsScriptData(clause.Data()) {
		if clause.Value().Sign() != 0 {
			return &Output{Err: ErrScriptWithValue}
		}
		senv := setypes.NewScriptEnv(rt.state, rt.ctx, txCtx)
		seOutput, err := rt.se.HandleScriptData(senv, clause.Data()[len(script.ScriptPrefix):])
		if err != nil {
			return &Output{Err: err}
		}
		return &Output{
			Data:      seOutput.GetData(),
			Events:    seOutput.GetEvents(),
			Transfers: seOutput.GetTransfers(),
		}
	}
	return rt.transferValue(clause, txCtx)
}

// transferValue moves native currency from the origin to the clause recipient.
func (rt *Runtime) transferValue(clause *tx.Clause, txCtx *xenv.TransactionContext) *Output {
	to := clause.To()
	if to == nil {
		return &Output{Err: ErrNoRecipient}
	}
	if rt.state.IsCustody(txCtx.Origin) || rt.state.IsCustody(*to) {
		return &Output{Err: errors.Wrapf(ErrCustodyAccount, "%v -> %v", txCtx.Origin, *to)}
	}
	output := &Output{}
	value := clause.Value()
	if value.Sign() == 0 {
		return output
	}
	if !rt.state.SubBalance(txCtx.Origin, value) {
		return &Output{Err: errors.Wrapf(ErrInsufficientBalance, "%v has %v", txCtx.Origin, rt.state.GetBalance(txCtx.Origin))}
	}
	rt.state.AddBalance(*to, value)
	output.Transfers = tx.Transfers{&tx.Transfer{
		Sender:    txCtx.Origin,
		Recipient: *to,
		Amount:    new(big.Int).Set(value),
		Token:     meter.TokenCurrency,
	}}
	return output
}

// ExecuteTransaction executes a transaction. The returned error is for a tx that
// cannot run at all. A clause failure reverts every clause of the tx and shows
// up as a reverted receipt instead.
func (rt *Runtime) ExecuteTransaction(trx *tx.Transaction) (receipt *tx.Receipt, err error) {
	start := time.Now()
	if err := trx.Validate(); err != nil {
		return nil, err
	}
	origin, err := trx.Signer()
	if err != nil {
		return nil, err
	}

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()
	receipt = &tx.Receipt{Outputs: make([]*tx.Output, 0, len(trx.Clauses()))}

	for i, clause := range trx.Clauses() {
		txCtx := &xenv.TransactionContext{
			ID:          trx.ID(),
			Origin:      origin,
			BlockRef:    trx.BlockRef(),
			Expiration:  trx.Expiration(),
			Nonce:       trx.Nonce(),
			ClauseIndex: uint32(i),
		}
		output := rt.ExecuteClause(clause, txCtx)
		if output.Err == nil {
			output.Err = rt.state.Err()
		}
		if output.Err != nil {
			rt.logger.Debug("clause failed", "tx", txCtx.ID, "clause", i, "err", output.Err)
			rt.state.RevertTo(checkpoint)
			receipt.Reverted = true
			receipt.RevertReason = output.Err.Error()
			receipt.Outputs = nil
			break
		}
		receipt.Outputs = append(receipt.Outputs, &tx.Output{Events: output.Events, Transfers: output.Transfers, Data: output.Data})
	}

	metric.TxExecuted(receipt.Reverted, time.Since(start))
	rt.logger.Debug("tx executed", "id", trx.ID(), "reverted", receipt.Reverted, "elapsed", meter.PrettyDuration(time.Since(start)))
	return receipt, nil
}
