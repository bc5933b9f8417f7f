// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	block   *block.Block
	name    string
}

func newGenesis(builder *Builder, name string) (*Genesis, error) {
	blk, err := builder.computeBlock()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, blk, name}, nil
}

// Build seeds the initial state into the store behind stateCreator and
// returns the genesis block. Call it once, on an empty store.
func (g *Genesis) Build(stateCreator *state.Creator) (*block.Block, error) {
	blk, err := g.builder.Build(stateCreator)
	if err != nil {
		return nil, err
	}
	if blk.Header().ID() != g.ID() {
		panic("built genesis ID incorrect")
	}
	return blk, nil
}

// Block returns the genesis block without touching any store.
func (g *Genesis) Block() *block.Block {
	return g.block
}

// ID returns genesis block ID.
func (g *Genesis) ID() meter.Bytes32 {
	return g.block.Header().ID()
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}
