// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var privateKey, _ = crypto.GenerateKey()

func genesisBlock() *block.Block {
	return new(block.Builder).ParentID(block.GenesisParentID()).Timestamp(1526400000).Build()
}

func signedTx(nonce uint64) *tx.Transaction {
	to := meter.BytesToAddress([]byte("to"))
	trx := new(tx.Builder).Clause(tx.NewClause(&to).WithValue(big.NewInt(1))).Nonce(nonce).Build()
	sig, _ := crypto.Sign(trx.SigningHash().Bytes(), privateKey)
	return trx.WithSignature(sig)
}

func newBlock(parent *block.Block, txs ...*tx.Transaction) *block.Block {
	b := new(block.Builder).ParentID(parent.Header().ID()).Timestamp(parent.Header().Timestamp() + 10)
	for _, trx := range txs {
		b.Transaction(trx)
	}
	return b.Build()
}

func TestAddBlock(t *testing.T) {
	kv, _ := lvldb.NewMem()
	b0 := genesisBlock()
	ch, err := chain.New(kv, b0)
	require.Nil(t, err)
	assert.Equal(t, b0.Header().ID(), ch.BestBlock().Header().ID())
	assert.Equal(t, b0.Header().ID()[31], ch.Tag())

	tx1 := signedTx(1)
	b1 := newBlock(b0, tx1)
	require.Nil(t, ch.AddBlock(b1, tx.Receipts{&tx.Receipt{Reverted: true, RevertReason: "boom"}}))
	assert.Equal(t, uint32(1), ch.BestBlock().Header().Number())

	assert.Equal(t, chain.ErrBlockExist, ch.AddBlock(b1, tx.Receipts{&tx.Receipt{}}))
	assert.Equal(t, chain.ErrParentNotBest, ch.AddBlock(newBlock(b0), nil))

	id, err := ch.GetTrunkBlockID(1)
	require.Nil(t, err)
	assert.Equal(t, b1.Header().ID(), id)

	has, err := ch.HasTransaction(tx1.ID())
	require.Nil(t, err)
	assert.True(t, has)
	has, err = ch.HasTransaction(signedTx(2).ID())
	require.Nil(t, err)
	assert.False(t, has)

	got, meta, err := ch.GetTrunkTransaction(tx1.ID())
	require.Nil(t, err)
	assert.Equal(t, tx1.ID(), got.ID())
	assert.True(t, meta.Reverted)

	receipt, _, err := ch.GetTransactionReceipt(tx1.ID())
	require.Nil(t, err)
	assert.Equal(t, "boom", receipt.RevertReason)

	_, err = ch.GetBlock(meter.Bytes32{})
	assert.True(t, ch.IsNotFound(err))
}

func TestReopen(t *testing.T) {
	kv, _ := lvldb.NewMem()
	b0 := genesisBlock()
	ch, err := chain.New(kv, b0)
	require.Nil(t, err)
	tx1 := signedTx(1)
	b1 := newBlock(b0, tx1)
	require.Nil(t, ch.AddBlock(b1, tx.Receipts{&tx.Receipt{}}))

	reopened, err := chain.New(kv, b0)
	require.Nil(t, err)
	assert.Equal(t, b1.Header().ID(), reopened.BestBlock().Header().ID())
	has, err := reopened.HasTransaction(tx1.ID())
	require.Nil(t, err)
	assert.True(t, has)

	other := new(block.Builder).ParentID(block.GenesisParentID()).Timestamp(1).Build()
	_, err = chain.New(kv, other)
	assert.NotNil(t, err)
}

func TestTicker(t *testing.T) {
	kv, _ := lvldb.NewMem()
	b0 := genesisBlock()
	ch, err := chain.New(kv, b0)
	require.Nil(t, err)

	w := ch.NewTicker()
	require.Nil(t, ch.AddBlock(newBlock(b0), nil))
	select {
	case <-w.C():
	default:
		t.Fatal("ticker not signaled")
	}
}

func TestBlockReader(t *testing.T) {
	kv, _ := lvldb.NewMem()
	b0 := genesisBlock()
	ch, err := chain.New(kv, b0)
	require.Nil(t, err)

	parent := b0
	for i := 0; i < 3; i++ {
		blk := newBlock(parent)
		require.Nil(t, ch.AddBlock(blk, nil))
		parent = blk
	}

	br := ch.NewBlockReader(b0.Header().ID())
	blocks, err := br.Read()
	require.Nil(t, err)
	require.Equal(t, 3, len(blocks))
	assert.Equal(t, uint32(1), blocks[0].Header().Number())

	blocks, err = br.Read()
	require.Nil(t, err)
	assert.Equal(t, 0, len(blocks))

	require.Nil(t, ch.AddBlock(newBlock(parent), nil))
	blocks, err = br.Read()
	require.Nil(t, err)
	require.Equal(t, 1, len(blocks))
	assert.Equal(t, uint32(4), blocks[0].Header().Number())
}
