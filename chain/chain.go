// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	bloomfilter "github.com/holiman/bloomfilter/v2"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/co"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/metric"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

const (
	blockCacheLimit    = 512
	receiptsCacheLimit = 512
)

var (
	errNotFound      = errors.New("not found")
	ErrBlockExist    = errors.New("block already exists")
	ErrParentNotBest = errors.New("parent is not the best block")
)

// Chain describes a persistent block chain.
// It's thread-safe.
type Chain struct {
	kv           kv.Store
	genesisBlock *block.Block
	bestBlock    *block.Block
	tag          byte
	caches       caches
	knownTxs     *bloomfilter.Filter
	rw           sync.RWMutex
	tick         co.Signal
	logger       *slog.Logger
}

type caches struct {
	blocks   *lru.Cache
	receipts *lru.Cache
}

// New create an instance of Chain.
func New(kv kv.Store, genesisBlock *block.Block) (*Chain, error) {
	if genesisBlock.Header().Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	if len(genesisBlock.Transactions()) != 0 {
		return nil, errors.New("genesis block should not have transactions")
	}
	logger := slog.Default().With("pkg", "chain")

	var bestBlock *block.Block
	genesisID := genesisBlock.Header().ID()
	if bestBlockID, err := loadBestBlockID(kv); err != nil {
		if !kv.IsNotFound(err) {
			return nil, err
		}
		// no genesis yet
		batch := kv.NewBatch()
		if err := saveBlock(batch, genesisBlock); err != nil {
			return nil, err
		}
		if err := saveBlockHash(batch, 0, genesisID); err != nil {
			return nil, err
		}
		if err := saveBestBlockID(batch, genesisID); err != nil {
			return nil, err
		}
		if err := batch.Write(); err != nil {
			return nil, err
		}
		bestBlock = genesisBlock
	} else {
		existGenesisID, err := loadBlockHash(kv, 0)
		if err != nil {
			return nil, err
		}
		if existGenesisID != genesisID {
			return nil, errors.New("genesis mismatch")
		}
		bestBlock, err = loadBlock(kv, bestBlockID)
		if err != nil {
			return nil, errors.Wrap(err, "load best block")
		}
	}

	blockCache, err := lru.New(blockCacheLimit)
	if err != nil {
		return nil, err
	}
	receiptsCache, err := lru.New(receiptsCacheLimit)
	if err != nil {
		return nil, err
	}
	knownTxs, err := newKnownTxs()
	if err != nil {
		return nil, err
	}

	// refill the filter with txs settled in earlier runs
	it := kv.NewIterator(txMetaPrefix)
	for it.Next() {
		knownTxs.Add(txHasher(meter.BytesToBytes32(it.Key()[len(txMetaPrefix):])))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return nil, err
	}

	metric.SetBestBlock(bestBlock.Header().Number())
	logger.Info("chain loaded", "genesis", genesisID, "best", bestBlock.Header().Number())

	return &Chain{
		kv:           kv,
		genesisBlock: genesisBlock,
		bestBlock:    bestBlock,
		tag:          genesisID[31],
		caches: caches{
			blocks:   blockCache,
			receipts: receiptsCache,
		},
		knownTxs: knownTxs,
		logger:   logger,
	}, nil
}

// Tag returns chain tag, which is the last byte of genesis id.
func (c *Chain) Tag() byte {
	return c.tag
}

// GenesisBlock returns genesis block.
func (c *Chain) GenesisBlock() *block.Block {
	return c.genesisBlock
}

// BestBlock returns the newest block on trunk.
func (c *Chain) BestBlock() *block.Block {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.bestBlock
}

// AddBlock appends a block on top of the best block and makes it the best.
// Block, receipts, tx metas and the best pointer are written in one batch.
func (c *Chain) AddBlock(newBlock *block.Block, receipts tx.Receipts) error {
	c.rw.Lock()
	defer c.rw.Unlock()

	header := newBlock.Header()
	newBlockID := header.ID()
	if has, err := c.kv.Has(append(blockPrefix, newBlockID[:]...)); err != nil {
		return err
	} else if has {
		return ErrBlockExist
	}
	if header.ParentID() != c.bestBlock.Header().ID() {
		return ErrParentNotBest
	}
	txs := newBlock.Transactions()
	if len(txs) != len(receipts) {
		return errors.New("receipts count mismatch")
	}

	batch := c.kv.NewBatch()
	if err := saveBlock(batch, newBlock); err != nil {
		return err
	}
	if err := saveBlockHash(batch, header.Number(), newBlockID); err != nil {
		return err
	}
	if err := saveBlockReceipts(batch, newBlockID, receipts); err != nil {
		return err
	}
	for i, trx := range txs {
		meta := TxMeta{BlockID: newBlockID, Index: uint64(i), Reverted: receipts[i].Reverted}
		if err := saveTxMeta(batch, trx.ID(), meta); err != nil {
			return err
		}
	}
	if err := saveBestBlockID(batch, newBlockID); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write block")
	}

	for _, trx := range txs {
		c.knownTxs.Add(txHasher(trx.ID()))
	}
	c.caches.blocks.Add(newBlockID, newBlock)
	c.caches.receipts.Add(newBlockID, receipts)
	c.bestBlock = newBlock
	metric.SetBestBlock(header.Number())
	c.tick.Broadcast()

	c.logger.Debug("block added", "num", header.Number(), "id", newBlockID, "txs", len(txs))
	return nil
}

// GetBlock get block by id.
func (c *Chain) GetBlock(id meter.Bytes32) (*block.Block, error) {
	if cached, ok := c.caches.blocks.Get(id); ok {
		return cached.(*block.Block), nil
	}
	blk, err := loadBlock(c.kv, id)
	if err != nil {
		return nil, err
	}
	c.caches.blocks.Add(id, blk)
	return blk, nil
}

// GetBlockHeader get block header by block id.
func (c *Chain) GetBlockHeader(id meter.Bytes32) (*block.Header, error) {
	blk, err := c.GetBlock(id)
	if err != nil {
		return nil, err
	}
	return blk.Header(), nil
}

// GetBlockReceipts get all tx receipts in the block for given block id.
func (c *Chain) GetBlockReceipts(id meter.Bytes32) (tx.Receipts, error) {
	if cached, ok := c.caches.receipts.Get(id); ok {
		return cached.(tx.Receipts), nil
	}
	receipts, err := loadBlockReceipts(c.kv, id)
	if err != nil {
		return nil, err
	}
	c.caches.receipts.Add(id, receipts)
	return receipts, nil
}

// GetTrunkBlockID get block id on trunk by given block number.
func (c *Chain) GetTrunkBlockID(num uint32) (meter.Bytes32, error) {
	return loadBlockHash(c.kv, num)
}

// GetTrunkBlock get block on trunk by given block number.
func (c *Chain) GetTrunkBlock(num uint32) (*block.Block, error) {
	id, err := c.GetTrunkBlockID(num)
	if err != nil {
		return nil, err
	}
	return c.GetBlock(id)
}

// HasTransaction reports whether a tx with the id was already settled.
func (c *Chain) HasTransaction(txID meter.Bytes32) (bool, error) {
	if !c.knownTxs.Contains(txHasher(txID)) {
		return false, nil
	}
	return hasTxMeta(c.kv, txID)
}

// GetTransactionMeta get tx meta info by tx id.
func (c *Chain) GetTransactionMeta(txID meter.Bytes32) (*TxMeta, error) {
	return loadTxMeta(c.kv, txID)
}

// GetTrunkTransaction get transaction on trunk by id.
func (c *Chain) GetTrunkTransaction(txID meter.Bytes32) (*tx.Transaction, *TxMeta, error) {
	meta, err := c.GetTransactionMeta(txID)
	if err != nil {
		return nil, nil, err
	}
	blk, err := c.GetBlock(meta.BlockID)
	if err != nil {
		return nil, nil, err
	}
	txs := blk.Transactions()
	if meta.Index >= uint64(len(txs)) {
		return nil, nil, errors.New("tx index out of range")
	}
	return txs[meta.Index], meta, nil
}

// GetTransactionReceipt get receipt of a settled tx.
func (c *Chain) GetTransactionReceipt(txID meter.Bytes32) (*tx.Receipt, *TxMeta, error) {
	meta, err := c.GetTransactionMeta(txID)
	if err != nil {
		return nil, nil, err
	}
	receipts, err := c.GetBlockReceipts(meta.BlockID)
	if err != nil {
		return nil, nil, err
	}
	if meta.Index >= uint64(len(receipts)) {
		return nil, nil, errors.New("receipt index out of range")
	}
	return receipts[meta.Index], meta, nil
}

// IsNotFound returns if an error means not found.
func (c *Chain) IsNotFound(err error) bool {
	return err == errNotFound || c.kv.IsNotFound(err)
}

// NewTicker create a signal Waiter to receive event of head block change.
func (c *Chain) NewTicker() co.Waiter {
	return c.tick.NewWaiter()
}
