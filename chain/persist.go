// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

var (
	blockPrefix         = []byte("b")    // (prefix, block id) -> block
	txMetaPrefix        = []byte("t")    // (prefix, tx id) -> tx location
	blockReceiptsPrefix = []byte("r")    // (prefix, block id) -> receipts
	hashKeyPrefix       = []byte("hash") // (prefix, block num) -> block hash

	bestBlockKey = []byte("best") // best block hash
)

func numberAsKey(num uint32) []byte {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], num)
	return key[:]
}

// TxMeta contains information about a tx is settled.
type TxMeta struct {
	BlockID meter.Bytes32

	// Index the position of the tx in block's txs.
	Index uint64 // rlp require uint64.

	Reverted bool
}

func saveRLP(w kv.Putter, key []byte, val interface{}) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val interface{}) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

// loadBestBlockID returns the best block ID on trunk.
func loadBestBlockID(r kv.Getter) (meter.Bytes32, error) {
	data, err := r.Get(bestBlockKey)
	if err != nil {
		return meter.Bytes32{}, err
	}
	return meter.BytesToBytes32(data), nil
}

// saveBestBlockID save the best block ID on trunk.
func saveBestBlockID(w kv.Putter, id meter.Bytes32) error {
	return w.Put(bestBlockKey, id[:])
}

// loadBlockHash returns the block hash on trunk with num.
func loadBlockHash(r kv.Getter, num uint32) (meter.Bytes32, error) {
	data, err := r.Get(append(hashKeyPrefix, numberAsKey(num)...))
	if err != nil {
		return meter.Bytes32{}, err
	}
	return meter.BytesToBytes32(data), nil
}

// saveBlockHash save the block hash on trunk corresponding to a num.
func saveBlockHash(w kv.Putter, num uint32, id meter.Bytes32) error {
	return w.Put(append(hashKeyPrefix, numberAsKey(num)...), id[:])
}

// loadBlock load and decode a block.
func loadBlock(r kv.Getter, id meter.Bytes32) (*block.Block, error) {
	var blk block.Block
	if err := loadRLP(r, append(blockPrefix, id[:]...), &blk); err != nil {
		return nil, err
	}
	return &blk, nil
}

// saveBlock save rlp encoded block.
func saveBlock(w kv.Putter, blk *block.Block) error {
	id := blk.Header().ID()
	return saveRLP(w, append(blockPrefix, id[:]...), blk)
}

// saveTxMeta save locations of a tx.
func saveTxMeta(w kv.Putter, txID meter.Bytes32, meta TxMeta) error {
	return saveRLP(w, append(txMetaPrefix, txID[:]...), &meta)
}

// hasTxMeta checks whether a tx was settled.
func hasTxMeta(r kv.Getter, txID meter.Bytes32) (bool, error) {
	return r.Has(append(txMetaPrefix, txID[:]...))
}

// loadTxMeta load tx meta info by tx id.
func loadTxMeta(r kv.Getter, txID meter.Bytes32) (*TxMeta, error) {
	var meta TxMeta
	if err := loadRLP(r, append(txMetaPrefix, txID[:]...), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// saveBlockReceipts save tx receipts of a block.
func saveBlockReceipts(w kv.Putter, blockID meter.Bytes32, receipts tx.Receipts) error {
	return saveRLP(w, append(blockReceiptsPrefix, blockID[:]...), receipts)
}

// loadBlockReceipts load tx receipts of a block.
func loadBlockReceipts(r kv.Getter, blockID meter.Bytes32) (tx.Receipts, error) {
	var receipts tx.Receipts
	if err := loadRLP(r, append(blockReceiptsPrefix, blockID[:]...), &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}
