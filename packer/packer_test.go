// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer_test

import (
	"context"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fortytw2/leaktest"
	basset "github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/packer"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nonce uint64 = uint64(time.Now().UnixNano())

type testNode struct {
	t       *testing.T
	chain   *chain.Chain
	creator *state.Creator
	logDB   *logdb.LogDB
	packer  *packer.Packer
	now     uint64
}

func newTestNode(t *testing.T) *testNode {
	kv, err := lvldb.NewMem()
	require.Nil(t, err)
	creator := state.NewCreator(kv)
	g := genesis.MustNewDevnet()
	b0, err := g.Build(creator)
	require.Nil(t, err)
	c, err := chain.New(kv, b0)
	require.Nil(t, err)
	logDB, err := logdb.NewMem()
	require.Nil(t, err)
	t.Cleanup(logDB.Close)

	n := &testNode{t: t, chain: c, creator: creator, logDB: logDB, now: genesis.DevnetLaunchTime + 10}
	n.packer = packer.New(c, creator, script.NewScriptEngine(), logDB)
	n.packer.SetClock(func() uint64 { return atomic.LoadUint64(&n.now) })
	return n
}

func (n *testNode) newTx(signer genesis.DevAccount, clauses ...*tx.Clause) *tx.Transaction {
	trx, err := n.buildTx(signer, clauses...)
	require.Nil(n.t, err)
	return trx
}

// buildTx signs a tx without failing the test, for use off the test goroutine.
func (n *testNode) buildTx(signer genesis.DevAccount, clauses ...*tx.Clause) (*tx.Transaction, error) {
	b := new(tx.Builder).
		ChainTag(n.chain.Tag()).
		Expiration(math.MaxUint32).
		Nonce(atomic.AddUint64(&nonce, 1))
	for _, c := range clauses {
		b.Clause(c)
	}
	trx := b.Build()
	sig, err := crypto.Sign(trx.SigningHash().Bytes(), signer.PrivateKey)
	if err != nil {
		return nil, err
	}
	return trx.WithSignature(sig), nil
}

func (n *testNode) scriptClause(body interface{}) *tx.Clause {
	c, err := script.NewBuilder(body).Clause()
	require.Nil(n.t, err)
	return c
}

func (n *testNode) submit(signer genesis.DevAccount, body interface{}) *tx.Receipt {
	_, receipt, err := n.packer.Submit(n.newTx(signer, n.scriptClause(body)))
	require.Nil(n.t, err)
	return receipt
}

func (n *testNode) state() *state.State {
	st, err := n.creator.NewState(n.chain.BestBlock().Header().StateRoot())
	require.Nil(n.t, err)
	return st
}

func TestSubmit(t *testing.T) {
	n := newTestNode(t)
	a0, a1 := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	trx := n.newTx(a0, tx.NewClause(&a1.Address).WithValue(big.NewInt(1)))
	blk, receipt, err := n.packer.Submit(trx)
	require.Nil(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint32(1), blk.Header().Number())
	assert.Equal(t, n.now, blk.Header().Timestamp())
	assert.Equal(t, blk.Header().ID(), n.chain.BestBlock().Header().ID())
	assert.Equal(t, "1000000000000000000000000001", n.state().GetBalance(a1.Address).String())

	_, _, err = n.packer.Submit(trx)
	assert.True(t, packer.IsKnownTx(err))

	wrongTag := new(tx.Builder).ChainTag(n.chain.Tag() + 1).Clause(tx.NewClause(&a1.Address)).Build()
	sig, _ := crypto.Sign(wrongTag.SigningHash().Bytes(), a0.PrivateKey)
	_, _, err = n.packer.Submit(wrongTag.WithSignature(sig))
	assert.True(t, packer.IsBadTx(err))

	unsigned := new(tx.Builder).ChainTag(n.chain.Tag()).Expiration(10).Clause(tx.NewClause(&a1.Address)).Build()
	_, _, err = n.packer.Submit(unsigned)
	assert.True(t, packer.IsBadTx(err))
	assert.Equal(t, uint32(1), n.chain.BestBlock().Header().Number())
}

func TestBlockTimeNeverGoesBack(t *testing.T) {
	n := newTestNode(t)
	a0, a1 := genesis.DevAccounts()[0], genesis.DevAccounts()[1]

	n.now = genesis.DevnetLaunchTime - 100
	blk, _, err := n.packer.Submit(n.newTx(a0, tx.NewClause(&a1.Address)))
	require.Nil(t, err)
	assert.Equal(t, genesis.DevnetLaunchTime, blk.Header().Timestamp())
}

func TestAuctionLifecycle(t *testing.T) {
	n := newTestNode(t)
	dev := genesis.DevAccounts()
	seller, alice, bob := dev[0], dev[1], dev[2]
	mint := basset.MintID(seller.Address, genesis.DevMintName)
	addr := auction.AuctionAddress(seller.Address, mint, 7)

	receipt := n.submit(seller, auction.NewInitBody(mint, 7, big.NewInt(100), big.NewInt(10), 60))
	require.False(t, receipt.Reverted, receipt.RevertReason)
	assert.Equal(t, addr.Bytes(), receipt.Outputs[0].Data)

	receipt = n.submit(alice, auction.NewBidBody(addr, big.NewInt(100)))
	require.False(t, receipt.Reverted, receipt.RevertReason)
	receipt = n.submit(bob, auction.NewBidBody(addr, big.NewInt(105)))
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.RevertReason, auction.ErrBidIncrementTooLow.Code)
	receipt = n.submit(bob, auction.NewBidBody(addr, big.NewInt(110)))
	require.False(t, receipt.Reverted, receipt.RevertReason)

	receipt = n.submit(alice, auction.NewFinalizeBody(addr))
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.RevertReason, auction.ErrAuctionNotEnded.Code)

	atomic.AddUint64(&n.now, 60)
	receipt = n.submit(alice, auction.NewFinalizeBody(addr))
	require.False(t, receipt.Reverted, receipt.RevertReason)

	st := n.state()
	r := st.GetAuctionRecord(addr)
	require.NotNil(t, r)
	assert.Equal(t, meter.AuctionCompleted, r.Status)
	assert.Equal(t, bob.Address, r.Winner)

	// the finalize block carries the settlement events in logdb
	events, err := n.logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*meter.Bytes32{&auction.AuctionFinalizedEvent}}},
	})
	require.Nil(t, err)
	require.Equal(t, 1, len(events))
	assert.Equal(t, meter.BytesToBytes32(addr.Bytes()), *events[0].Topics[1])

	// reverted txs leave nothing in the index
	events, err = n.logDB.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*meter.Bytes32{&auction.BidPlacedEvent}}},
	})
	require.Nil(t, err)
	assert.Equal(t, 2, len(events))
}

func TestConcurrentBids(t *testing.T) {
	defer leaktest.Check(t)()

	n := newTestNode(t)
	dev := genesis.DevAccounts()
	seller := dev[0]
	mint := basset.MintID(seller.Address, genesis.DevMintName)
	addr := auction.AuctionAddress(seller.Address, mint, 1)
	receipt := n.submit(seller, auction.NewInitBody(mint, 1, big.NewInt(100), big.NewInt(1), 3600))
	require.False(t, receipt.Reverted, receipt.RevertReason)

	bidders := dev[1:]
	var (
		wg       sync.WaitGroup
		accepted int32
	)
	for i, b := range bidders {
		for j := 0; j < 5; j++ {
			wg.Add(1)
			go func(b genesis.DevAccount, amount int64) {
				defer wg.Done()
				clause, err := script.NewBuilder(auction.NewBidBody(addr, big.NewInt(amount))).Clause()
				if !assert.Nil(t, err) {
					return
				}
				trx, err := n.buildTx(b, clause)
				if !assert.Nil(t, err) {
					return
				}
				_, receipt, err := n.packer.Submit(trx)
				if err == nil && !receipt.Reverted {
					atomic.AddInt32(&accepted, 1)
				}
			}(b, int64(100+i*10+j))
		}
	}
	wg.Wait()

	st := n.state()
	r := st.GetAuctionRecord(addr)
	require.NotNil(t, r)
	assert.True(t, accepted > 0)
	assert.Equal(t, uint64(accepted), r.BidCount)
	assert.Equal(t, r.HighestBid.String(), st.GetBalance(r.Escrow).String())

	// only the leading bidder has funds in escrow
	initial, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
	for _, b := range bidders {
		bal := st.GetBalance(b.Address)
		if b.Address == r.HighestBidder {
			assert.Equal(t, new(big.Int).Sub(initial, r.HighestBid).String(), bal.String())
		} else {
			assert.Equal(t, initial.String(), bal.String())
		}
	}
	assert.Equal(t, uint32(1+len(bidders)*5), n.chain.BestBlock().Header().Number())
}
