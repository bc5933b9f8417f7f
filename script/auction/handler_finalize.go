// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// PlatformFee computes the fee charged on a winning bid at rate basis points.
func PlatformFee(bid, rate *big.Int) *big.Int {
	if rate == nil || rate.Sign() <= 0 {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(bid, rate)
	fee.Div(fee, big.NewInt(meter.FeeRateDenominator))
	if fee.Cmp(bid) > 0 {
		fee.Set(bid)
	}
	return fee
}

// HandleFinalize settles an ended auction: the creator is paid, less the
// platform fee, and the winner receives the asset. Anyone may call it.
func (ab *AuctionBody) HandleFinalize(env *AuctionEnv) error {
	r, err := ab.loadActive(env)
	if err != nil {
		return err
	}
	if !r.Ended(env.Now()) {
		return newError(ErrAuctionNotEnded, "ends at %v", r.EndTime)
	}
	if !r.HasBids() {
		return ErrNoBidsPlaced
	}

	rate, recipient := env.Params().FeePolicy()
	fee := new(big.Int)
	if !recipient.IsZero() {
		fee = PlatformFee(r.HighestBid, rate)
	}
	proceeds := new(big.Int).Sub(r.HighestBid, fee)

	c := newCustodian(env, r)
	if err := c.release(recipient, fee); err != nil {
		return err
	}
	if err := c.release(r.Creator, proceeds); err != nil {
		return err
	}
	if err := c.releaseAsset(r.HighestBidder); err != nil {
		return err
	}

	r.Status = meter.AuctionCompleted
	r.Winner = r.HighestBidder
	r.Fee = fee
	env.GetState().SetAuctionRecord(r)

	env.emit(AuctionFinalizedEvent, r.Address, &AuctionFinalized{Winner: r.Winner, WinningBid: r.HighestBid, Fee: fee})
	env.GetAuction().logger.Info("auction finalized", "auction", r.Address, "winner", r.Winner, "bid", r.HighestBid, "fee", fee)
	return nil
}
