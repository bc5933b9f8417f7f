// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// Event signatures, used as the first topic of each event.
var (
	AuctionCreatedEvent   = meter.Blake2b([]byte("AuctionCreated(address,address,bytes32,uint256,uint64)"))
	BidPlacedEvent        = meter.Blake2b([]byte("BidPlaced(address,address,uint256)"))
	AuctionFinalizedEvent = meter.Blake2b([]byte("AuctionFinalized(address,address,uint256,uint256)"))
	AuctionCancelledEvent = meter.Blake2b([]byte("AuctionCancelled(address,string)"))
	AuctionUpdatedEvent   = meter.Blake2b([]byte("AuctionUpdated(address,uint64,uint256)"))
)

const (
	ReasonCancelledByCreator = "cancelled by creator"
	ReasonNoBids             = "no bids placed"
)

type AuctionCreated struct {
	Creator     meter.Address
	Mint        meter.Bytes32
	StartingBid *big.Int
	EndTime     uint64
}

type BidPlaced struct {
	Bidder meter.Address
	Amount *big.Int
}

type AuctionFinalized struct {
	Winner     meter.Address
	WinningBid *big.Int
	Fee        *big.Int
}

type AuctionCancelled struct {
	Reason string
}

type AuctionUpdated struct {
	EndTime      uint64
	MinIncrement *big.Int
}

// emit logs an event under the module address. Topics are the signature and the auction.
func (env *AuctionEnv) emit(sig meter.Bytes32, auction meter.Address, data interface{}) {
	enc, err := rlp.EncodeToBytes(data)
	if err != nil {
		env.GetAuction().logger.Error("encode event failed", "err", err)
		return
	}
	env.AddEvent(meter.AuctionModuleAddr, []meter.Bytes32{sig, meter.BytesToBytes32(auction[:])}, enc)
}

// DecodeEvent decodes the data of an auction event given its signature topic.
func DecodeEvent(sig meter.Bytes32, data []byte) (name string, v interface{}, err error) {
	switch sig {
	case AuctionCreatedEvent:
		name, v = "AuctionCreated", new(AuctionCreated)
	case BidPlacedEvent:
		name, v = "BidPlaced", new(BidPlaced)
	case AuctionFinalizedEvent:
		name, v = "AuctionFinalized", new(AuctionFinalized)
	case AuctionCancelledEvent:
		name, v = "AuctionCancelled", new(AuctionCancelled)
	case AuctionUpdatedEvent:
		name, v = "AuctionUpdated", new(AuctionUpdated)
	default:
		return "", nil, errors.Errorf("unknown event %v", sig)
	}
	if err := rlp.DecodeBytes(data, v); err != nil {
		return "", nil, errors.Wrap(err, name)
	}
	return name, v, nil
}
