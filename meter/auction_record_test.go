// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
)

func TestAuctionRecord(t *testing.T) {
	r := meter.NewAuctionRecord(meter.BytesToAddress([]byte("a")), meter.BytesToAddress([]byte("c")), meter.BytesToBytes32([]byte("m")), 7)
	r.StartingBid = big.NewInt(1000000)
	r.MinIncrement = big.NewInt(100000)
	r.EndTime = 3600

	assert.Equal(t, meter.AuctionActive, r.Status)
	assert.False(t, r.HasBids())
	assert.Equal(t, big.NewInt(1000000), r.MinNextBid(), "first bid must meet the starting bid")

	r.HighestBid = big.NewInt(1500000)
	r.BidCount = 1
	assert.Equal(t, big.NewInt(1600000), r.MinNextBid())

	assert.False(t, r.Ended(3599))
	assert.True(t, r.Ended(3600))

	data, err := rlp.EncodeToBytes(r)
	assert.Nil(t, err)
	var dec meter.AuctionRecord
	assert.Nil(t, rlp.DecodeBytes(data, &dec))
	assert.Equal(t, r.HighestBid, dec.HighestBid)
	assert.Equal(t, r.Seed, dec.Seed)
}

func TestAuctionStatus(t *testing.T) {
	assert.False(t, meter.AuctionActive.IsTerminal())
	assert.True(t, meter.AuctionCompleted.IsTerminal())
	assert.True(t, meter.AuctionCancelled.IsTerminal())
	assert.Equal(t, "Cancelled", meter.AuctionCancelled.String())
}
