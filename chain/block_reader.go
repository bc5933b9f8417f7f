// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
)

const blockReaderBatch = 64

// BlockReader defines the interface to read blocks on trunk.
type BlockReader interface {
	Read() ([]*block.Block, error)
}

type readBlock func() ([]*block.Block, error)

func (r readBlock) Read() ([]*block.Block, error) {
	return r()
}

// NewBlockReader creates a reader that yields, in order, the trunk blocks
// after position. Each Read returns at most a small batch and nothing once
// it caught up with the best block.
func (c *Chain) NewBlockReader(position meter.Bytes32) BlockReader {
	next := block.Number(position) + 1
	return readBlock(func() ([]*block.Block, error) {
		best := c.BestBlock().Header().Number()
		var blocks []*block.Block
		for next <= best && len(blocks) < blockReaderBatch {
			blk, err := c.GetTrunkBlock(next)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, blk)
			next++
		}
		return blocks, nil
	})
}
