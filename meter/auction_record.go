// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"math/big"
	"time"
)

type AuctionStatus uint8

const (
	AuctionActive AuctionStatus = iota
	AuctionCompleted
	AuctionCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionActive:
		return "Active"
	case AuctionCompleted:
		return "Completed"
	case AuctionCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionCompleted || s == AuctionCancelled
}

// AuctionRecord is the authoritative state of one auction.
type AuctionRecord struct {
	Address Address
	Creator Address
	Mint    Bytes32
	Vault   Address
	Escrow  Address
	Seed    uint64
	Status  AuctionStatus

	StartingBid  *big.Int
	MinIncrement *big.Int
	StartTime    uint64
	EndTime      uint64

	HighestBid    *big.Int
	HighestBidder Address
	BidCount      uint64

	Winner Address
	Fee    *big.Int
}

func NewAuctionRecord(addr, creator Address, mint Bytes32, seed uint64) *AuctionRecord {
	return &AuctionRecord{
		Address:      addr,
		Creator:      creator,
		Mint:         mint,
		Seed:         seed,
		Status:       AuctionActive,
		StartingBid:  new(big.Int),
		MinIncrement: new(big.Int),
		HighestBid:   new(big.Int),
		Fee:          new(big.Int),
	}
}

// HasBids returns true once a bid was accepted.
func (r *AuctionRecord) HasBids() bool {
	return r.BidCount > 0
}

// MinNextBid returns the lowest amount the next bid must reach.
func (r *AuctionRecord) MinNextBid() *big.Int {
	if !r.HasBids() {
		return new(big.Int).Set(r.StartingBid)
	}
	return new(big.Int).Add(r.HighestBid, r.MinIncrement)
}

// Ended reports whether the deadline passed at the given time.
func (r *AuctionRecord) Ended(now uint64) bool {
	return now >= r.EndTime
}

func (r *AuctionRecord) ToString() string {
	return fmt.Sprintf("AuctionRecord(addr=%v, creator=%v, mint=%v, status=%v, start=%v, end=%v, highest=%v by %v, bids=%v)",
		r.Address, r.Creator, r.Mint, r.Status, r.StartingBid.String(),
		time.Unix(int64(r.EndTime), 0).UTC().Format(time.RFC3339), r.HighestBid.String(), r.HighestBidder, r.BidCount)
}
