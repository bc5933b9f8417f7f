// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	kv, err := lvldb.NewMem()
	require.Nil(t, err)
	st, err := New(meter.Bytes32{}, kv)
	require.Nil(t, err)
	return st, kv
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newTestState(t)

	addr := meter.BytesToAddress([]byte("account1"))
	storageKey := meter.BytesToBytes32([]byte("storageKey"))

	assert.False(t, st.Exists(addr))
	assert.Equal(t, &big.Int{}, st.GetBalance(addr))
	assert.Equal(t, meter.Bytes32{}, st.GetStorage(addr, storageKey))

	st.SetBalance(addr, big.NewInt(10))
	assert.Equal(t, big.NewInt(10), st.GetBalance(addr))
	assert.True(t, st.Exists(addr))

	st.SetStorage(addr, storageKey, meter.BytesToBytes32([]byte("storageValue")))
	assert.Equal(t, meter.BytesToBytes32([]byte("storageValue")), st.GetStorage(addr, storageKey))

	assert.False(t, st.SubBalance(addr, big.NewInt(11)), "insufficient balance")
	assert.Equal(t, big.NewInt(10), st.GetBalance(addr))
	assert.True(t, st.SubBalance(addr, big.NewInt(4)))
	st.AddBalance(addr, big.NewInt(1))
	assert.Equal(t, big.NewInt(7), st.GetBalance(addr))

	assert.False(t, st.IsCustody(addr))
	st.SetMaster(addr, meter.AuctionModuleAddr)
	assert.True(t, st.IsCustody(addr))
	assert.Equal(t, meter.AuctionModuleAddr, st.GetMaster(addr))
	assert.Nil(t, st.Err())
}

func TestStateRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := meter.BytesToAddress([]byte("account1"))
	storageKey := meter.BytesToBytes32([]byte("storageKey"))

	values := []struct {
		balance *big.Int
		storage meter.Bytes32
	}{
		{big.NewInt(1), meter.BytesToBytes32([]byte("v1"))},
		{big.NewInt(2), meter.BytesToBytes32([]byte("v2"))},
		{big.NewInt(3), meter.BytesToBytes32([]byte("v3"))},
	}

	for _, v := range values {
		st.NewCheckpoint()
		st.SetBalance(addr, v.balance)
		st.SetStorage(addr, storageKey, v.storage)
	}

	for i := range values {
		v := values[len(values)-i-1]
		assert.Equal(t, v.balance, st.GetBalance(addr))
		assert.Equal(t, v.storage, st.GetStorage(addr, storageKey))
		st.RevertTo(len(values) - i)
	}
	assert.Equal(t, &big.Int{}, st.GetBalance(addr), "should be empty after reverting all")
}

func TestStageCommit(t *testing.T) {
	st, kv := newTestState(t)

	addr := meter.BytesToAddress([]byte("account1"))
	key := meter.BytesToBytes32([]byte("k"))
	st.SetBalance(addr, big.NewInt(100))
	st.SetStorage(addr, key, meter.BytesToBytes32([]byte("v")))

	stage := st.Stage()
	hash, err := stage.Hash()
	require.Nil(t, err)
	assert.False(t, hash.IsZero())

	root, err := stage.Commit()
	require.Nil(t, err)
	assert.Equal(t, hash, root)

	latest, err := LatestRoot(kv)
	require.Nil(t, err)
	assert.Equal(t, root, latest)

	st2, err := New(root, kv)
	require.Nil(t, err)
	assert.Equal(t, big.NewInt(100), st2.GetBalance(addr))
	assert.Equal(t, meter.BytesToBytes32([]byte("v")), st2.GetStorage(addr, key))

	// same changes on another parent give another root
	st3, _ := newTestState(t)
	st3.SetBalance(addr, big.NewInt(100))
	st3.SetStorage(addr, key, meter.BytesToBytes32([]byte("v")))
	h3, _ := st3.Stage().Hash()
	assert.Equal(t, hash, h3, "stage root is deterministic")

	st2.SetBalance(addr, big.NewInt(0))
	root2, err := st2.Stage().Commit()
	require.Nil(t, err)
	assert.NotEqual(t, root, root2)

	st4, _ := New(root2, kv)
	assert.False(t, st4.Exists(addr), "emptied account is deleted")
	assert.Equal(t, meter.BytesToBytes32([]byte("v")), st4.GetStorage(addr, key))
}

func TestAuctionRecordStorage(t *testing.T) {
	st, _ := newTestState(t)
	auction := meter.BytesToAddress([]byte("auction"))

	assert.Nil(t, st.GetAuctionRecord(auction))

	r := meter.NewAuctionRecord(auction, meter.BytesToAddress([]byte("creator")), meter.BytesToBytes32([]byte("mint")), 1)
	r.StartingBid = big.NewInt(5)
	r.EndTime = 100
	st.SetAuctionRecord(r)

	got := st.GetAuctionRecord(auction)
	require.NotNil(t, got)
	assert.Equal(t, r.Creator, got.Creator)
	assert.Equal(t, uint64(100), got.EndTime)
	assert.Equal(t, 0, got.StartingBid.Cmp(big.NewInt(5)))
	assert.Nil(t, st.Err())
}
