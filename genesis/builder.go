// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (meter.Bytes32, error) {
	blk, err := b.computeBlock()
	if err != nil {
		return meter.Bytes32{}, err
	}
	return blk.Header().ID(), nil
}

// computeBlock builds the genesis against a throwaway store.
func (b *Builder) computeBlock() (*block.Block, error) {
	kv, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	defer kv.Close()
	return b.Build(state.NewCreator(kv))
}

// Build build genesis block according to presets and commits the initial state.
func (b *Builder) Build(stateCreator *state.Creator) (*block.Block, error) {
	state, err := stateCreator.NewState(meter.Bytes32{})
	if err != nil {
		return nil, err
	}
	for _, proc := range b.stateProcs {
		if err := proc(state); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	if err := state.Err(); err != nil {
		return nil, errors.Wrap(err, "state")
	}

	stateRoot, err := state.Stage().Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}

	return new(block.Builder).
		ParentID(block.GenesisParentID()).
		Timestamp(b.timestamp).
		StateRoot(stateRoot).
		Build(), nil
}
