// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// loadActive returns the record of ab.Auction if it is still Active.
func (ab *AuctionBody) loadActive(env *AuctionEnv) (*meter.AuctionRecord, error) {
	r := env.GetState().GetAuctionRecord(ab.Auction)
	if r == nil {
		return nil, newError(ErrAuctionNotFound, "address %v", ab.Auction)
	}
	if r.Status != meter.AuctionActive {
		return nil, newError(ErrAuctionAlreadyCompleted, "status %v", r.Status)
	}
	return r, nil
}

// HandleBid refunds the previous highest bidder and escrows the new bid.
func (ab *AuctionBody) HandleBid(env *AuctionEnv) error {
	r, err := ab.loadActive(env)
	if err != nil {
		return err
	}
	if r.Ended(env.Now()) {
		return ErrAuctionEnded
	}
	if ab.Amount == nil || ab.Amount.Cmp(r.MinNextBid()) < 0 {
		return newError(ErrBidIncrementTooLow, "minimum %v", r.MinNextBid())
	}

	bidder := env.GetSigner()
	c := newCustodian(env, r)
	if r.HasBids() {
		if err := c.release(r.HighestBidder, r.HighestBid); err != nil {
			return err
		}
	}
	if err := c.deposit(bidder, ab.Amount); err != nil {
		return err
	}

	r.HighestBid = new(big.Int).Set(ab.Amount)
	r.HighestBidder = bidder
	r.BidCount++
	env.GetState().SetAuctionRecord(r)

	env.emit(BidPlacedEvent, r.Address, &BidPlaced{Bidder: bidder, Amount: r.HighestBid})
	env.GetAuction().logger.Info("bid placed", "auction", r.Address, "bidder", bidder, "amount", r.HighestBid, "count", r.BidCount)
	return nil
}
