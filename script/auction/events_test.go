// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	bidder := meter.BytesToAddress([]byte("bidder"))
	data, err := rlp.EncodeToBytes(&BidPlaced{Bidder: bidder, Amount: big.NewInt(42)})
	require.Nil(t, err)

	name, v, err := DecodeEvent(BidPlacedEvent, data)
	require.Nil(t, err)
	assert.Equal(t, "BidPlaced", name)
	bid := v.(*BidPlaced)
	assert.Equal(t, bidder, bid.Bidder)
	assert.Equal(t, int64(42), bid.Amount.Int64())

	_, _, err = DecodeEvent(AuctionFinalizedEvent, data)
	assert.NotNil(t, err)
	_, _, err = DecodeEvent(meter.Bytes32{}, data)
	assert.NotNil(t, err)
}
