// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
)

// HandleUpdate changes the deadline or the increment before the first bid.
func (ab *AuctionBody) HandleUpdate(env *AuctionEnv) error {
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
	hasIncrement := ab.NewMinIncrement != nil && ab.NewMinIncrement.Sign() > 0
	if ab.NewDuration == 0 && !hasIncrement {
		return ErrInvalidStateTransition
	}

	if ab.NewDuration != 0 {
		r.EndTime = env.Now() + ab.NewDuration
	}
	if hasIncrement {
		r.MinIncrement = new(big.Int).Set(ab.NewMinIncrement)
	}
	env.GetState().SetAuctionRecord(r)

	env.emit(AuctionUpdatedEvent, r.Address, &AuctionUpdated{EndTime: r.EndTime, MinIncrement: r.MinIncrement})
	env.GetAuction().logger.Info("auction updated", "auction", r.Address, "end", r.EndTime, "increment", r.MinIncrement)
	return nil
}
