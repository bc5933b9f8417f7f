// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/meterio/meter-auction/meter"
)

// HandleCancel lets the creator call off an auction nobody bid on.
func (ab *AuctionBody) HandleCancel(env *AuctionEnv) error {
	r, err := ab.loadActive(env)
	if err != nil {
		return err
	}
	if r.HasBids() {
		return ErrAuctionHasBids
	}
	if env.GetSigner() != r.Creator {
		return ErrUnauthorized
	}
	return closeUnsold(env, r, ReasonCancelledByCreator)
}

// HandleWithdraw returns the asset of an ended auction that received no bids.
func (ab *AuctionBody) HandleWithdraw(env *AuctionEnv) error {
	r, err := ab.loadActive(env)
	if err != nil {
		return err
	}
	if r.HasBids() {
		return ErrAuctionHasBids
	}
	if !r.Ended(env.Now()) {
		return newError(ErrAuctionNotEnded, "ends at %v", r.EndTime)
	}
	if env.GetSigner() != r.Creator {
		return ErrUnauthorized
	}
	return closeUnsold(env, r, ReasonNoBids)
}

func closeUnsold(env *AuctionEnv, r *meter.AuctionRecord, reason string) error {
	if err := newCustodian(env, r).releaseAsset(r.Creator); err != nil {
		return err
	}
	r.Status = meter.AuctionCancelled
	env.GetState().SetAuctionRecord(r)

	env.emit(AuctionCancelledEvent, r.Address, &AuctionCancelled{Reason: reason})
	env.GetAuction().logger.Info("auction cancelled", "auction", r.Address, "reason", reason)
	return nil
}
