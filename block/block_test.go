// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	. "github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock(t *testing.T) {
	tx1 := new(tx.Builder).Clause(tx.NewClause(&meter.Address{})).Clause(tx.NewClause(&meter.Address{})).Build()
	tx2 := new(tx.Builder).Clause(tx.NewClause(nil)).Build()

	var (
		emptyRoot = meter.BytesToBytes32([]byte("0"))
		now       = uint64(1526400000)
	)

	blk := new(Builder).
		Transaction(tx1).
		Transaction(tx2).
		StateRoot(emptyRoot).
		ReceiptsRoot(emptyRoot).
		Timestamp(now).
		ParentID(GenesisParentID()).
		Build()

	h := blk.Header()
	assert.Equal(t, uint32(0), h.Number())
	assert.Equal(t, uint32(0), Number(h.ID()))
	assert.Equal(t, now, h.Timestamp())
	assert.Equal(t, emptyRoot, h.StateRoot())
	assert.Equal(t, blk.Transactions().RootHash(), h.TxsRoot())

	child := new(Builder).ParentID(h.ID()).Timestamp(now + 10).Build()
	assert.Equal(t, uint32(1), child.Header().Number())
	assert.NotEqual(t, h.ID(), child.Header().ID())

	data, err := rlp.EncodeToBytes(blk)
	require.Nil(t, err)
	var decoded Block
	require.Nil(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, h.ID(), decoded.Header().ID())
	assert.Len(t, decoded.Transactions(), 2)
}
