// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package asset

import (
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAsset(t *testing.T) (*Asset, *state.State) {
	kv, err := lvldb.NewMem()
	require.Nil(t, err)
	st, err := state.New(meter.Bytes32{}, kv)
	require.Nil(t, err)
	return New(meter.AssetModuleAddr, st), st
}

func TestCreateMint(t *testing.T) {
	a, st := newTestAsset(t)
	creator := meter.BytesToAddress([]byte("creator"))

	_, err := a.CreateMint(creator, "nft", 0, 1)
	assert.Equal(t, ErrZeroSupply, err)

	mint, err := a.CreateMint(creator, "nft", 1, 1)
	require.Nil(t, err)
	assert.Equal(t, MintID(creator, "nft"), mint)
	assert.Equal(t, uint64(1), a.Balance(mint, creator))

	info := a.GetMint(mint)
	require.NotNil(t, info)
	assert.Equal(t, creator, info.Creator)
	assert.Equal(t, uint64(1), info.Supply)

	_, err = a.CreateMint(creator, "nft", 1, 2)
	assert.Equal(t, ErrMintExists, err)
	assert.Nil(t, st.Err())
}

func TestTransfer(t *testing.T) {
	a, st := newTestAsset(t)
	creator := meter.BytesToAddress([]byte("creator"))
	buyer := meter.BytesToAddress([]byte("buyer"))
	mint, err := a.CreateMint(creator, "nft", 1, 1)
	require.Nil(t, err)

	assert.Equal(t, ErrNotOwner, a.Transfer(mint, creator, buyer, 1, buyer), "only the owner may move a holding")
	assert.Equal(t, ErrInsufficientAsset, a.Transfer(mint, creator, buyer, 2, creator))
	assert.Equal(t, ErrUnknownMint, a.Transfer(meter.BytesToBytes32([]byte("x")), creator, buyer, 1, creator))
	assert.Equal(t, ErrZeroAmount, a.Transfer(mint, creator, buyer, 0, creator))

	require.Nil(t, a.Transfer(mint, creator, buyer, 1, creator))
	assert.Equal(t, uint64(0), a.Balance(mint, creator))
	assert.Equal(t, uint64(1), a.Balance(mint, buyer))

	h := a.GetHolding(HoldingAddress(mint, buyer))
	require.NotNil(t, h)
	assert.Equal(t, buyer, h.Owner)
	assert.Nil(t, st.Err())
}

func TestHoldingAddress(t *testing.T) {
	mint := meter.BytesToBytes32([]byte("mint"))
	a := meter.BytesToAddress([]byte("a"))
	b := meter.BytesToAddress([]byte("b"))
	assert.Equal(t, HoldingAddress(mint, a), HoldingAddress(mint, a))
	assert.NotEqual(t, HoldingAddress(mint, a), HoldingAddress(mint, b))
}
