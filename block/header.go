// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	Body HeaderBody

	cache struct {
		id atomic.Value
	}
}

// HeaderBody body of header
type HeaderBody struct {
	ParentID  meter.Bytes32
	Timestamp uint64

	TxsRoot      meter.Bytes32
	StateRoot    meter.Bytes32
	ReceiptsRoot meter.Bytes32
}

// ParentID returns id of parent block.
func (h *Header) ParentID() meter.Bytes32 {
	return h.Body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	// inferred from parent id
	return Number(h.Body.ParentID) + 1
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.Body.Timestamp
}

// TxsRoot returns root hash of txs contained in this block.
func (h *Header) TxsRoot() meter.Bytes32 {
	return h.Body.TxsRoot
}

// StateRoot returns account state root just after this block being applied.
func (h *Header) StateRoot() meter.Bytes32 {
	return h.Body.StateRoot
}

// ReceiptsRoot returns root hash of tx receipts.
func (h *Header) ReceiptsRoot() meter.Bytes32 {
	return h.Body.ReceiptsRoot
}

// ID computes id of block.
// The block ID is defined as: blockNumber + hash(header body)[4:].
func (h *Header) ID() (id meter.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return cached.(meter.Bytes32)
	}
	defer func() {
		// overwrite first 4 bytes of block hash to block number.
		binary.BigEndian.PutUint32(id[:], h.Number())
		h.cache.id.Store(id)
	}()

	hw := meter.NewBlake2b()
	if err := rlp.Encode(hw, &h.Body); err != nil {
		return
	}
	hw.Sum(id[:0])
	return
}

func (h *Header) String() string {
	return fmt.Sprintf(`Header(%v):
  Number:  %v
  ParentID: %v
  Timestamp: %v
  TxsRoot: %v
  StateRoot: %v
  ReceiptsRoot: %v`, h.ID(), h.Number(), h.Body.ParentID, h.Body.Timestamp,
		h.Body.TxsRoot, h.Body.StateRoot, h.Body.ReceiptsRoot)
}

// Number extract block number from block id.
func Number(blockID meter.Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}

// GenesisParentID is the parent id of block 0.
func GenesisParentID() (id meter.Bytes32) {
	binary.BigEndian.PutUint32(id[:], ^uint32(0))
	return
}
