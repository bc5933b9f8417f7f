// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

// Clock returns the wall time in unix seconds.
type Clock func() uint64

// SystemClock reads time.Now.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Packer is the solo block producer. Every submitted tx is packed into its own
// block, one at a time, so txs touching the same auction are totally ordered.
type Packer struct {
	chain        *chain.Chain
	stateCreator *state.Creator
	se           *script.ScriptEngine
	logDB        *logdb.LogDB
	clock        Clock
	mu           sync.Mutex
	logger       *slog.Logger
}

// New create a new Packer instance.
// logDB is optional.
func New(
	chain *chain.Chain,
	stateCreator *state.Creator,
	se *script.ScriptEngine,
	logDB *logdb.LogDB) *Packer {

	return &Packer{
		chain:        chain,
		stateCreator: stateCreator,
		se:           se,
		logDB:        logDB,
		clock:        SystemClock,
		logger:       slog.Default().With("pkg", "packer"),
	}
}

// SetClock replaces the clock the block time is taken from.
func (p *Packer) SetClock(clock Clock) {
	p.mu.Lock()
	p.clock = clock
	p.mu.Unlock()
}

// Mock create a packing flow upon given parent, but with a designated timestamp.
func (p *Packer) Mock(parent *block.Header, targetTime uint64) (*Flow, error) {
	state, err := p.stateCreator.NewState(parent.StateRoot())
	if err != nil {
		return nil, errors.Wrap(err, "state")
	}

	rt := runtime.New(
		p.se,
		state,
		&xenv.BlockContext{
			Number: parent.Number() + 1,
			Time:   targetTime,
		})

	return newFlow(p, parent, rt), nil
}

// Submit executes trx in a new block on top of the best block and persists
// the result. A tx whose clauses fail is still packed, with a reverted receipt.
// The returned error means the tx was rejected and nothing was written.
func (p *Packer) Submit(trx *tx.Transaction) (*block.Block, *tx.Receipt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	parent := p.chain.BestBlock().Header()
	when := p.clock()
	if when < parent.Timestamp() {
		when = parent.Timestamp()
	}

	flow, err := p.Mock(parent, when)
	if err != nil {
		return nil, nil, err
	}
	if err := flow.Adopt(trx); err != nil {
		return nil, nil, err
	}
	newBlock, stage, receipts, err := flow.Pack()
	if err != nil {
		return nil, nil, err
	}

	if _, err := stage.Commit(); err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}
	if err := p.chain.AddBlock(newBlock, receipts); err != nil {
		return nil, nil, errors.Wrap(err, "add block")
	}
	if p.logDB != nil {
		if err := p.indexLogs(newBlock, receipts); err != nil {
			// the block is already settled, logs can be rebuilt from receipts
			p.logger.Error("index logs failed", "block", newBlock.Header().Number(), "err", err)
		}
	}

	p.logger.Info("packed block",
		"num", newBlock.Header().Number(),
		"id", newBlock.Header().ID(),
		"tx", trx.ID(),
		"reverted", receipts[0].Reverted,
		"elapsed", meter.PrettyDuration(time.Since(start)))
	return newBlock, receipts[0], nil
}

func (p *Packer) indexLogs(blk *block.Block, receipts tx.Receipts) error {
	batch := p.logDB.Prepare(blk.Header())
	for i, trx := range blk.Transactions() {
		receipt := receipts[i]
		if receipt.Reverted {
			continue
		}
		origin, _ := trx.Signer()
		for _, output := range receipt.Outputs {
			batch.ForTransaction(trx.ID(), origin).Insert(output.Events, output.Transfers)
		}
	}
	return batch.Commit()
}
