// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is a named auction failure. Code is stable and is what callers match on.
type Error struct {
	Code string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code
	}
	return e.Code + ": " + e.Msg
}

// Is matches any Error with the same code, so errors.Is works on detailed copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidDuration         = &Error{"InvalidDuration", "duration must be greater than 0"}
	ErrInvalidStartingBid      = &Error{"InvalidStartingBid", "starting bid must be greater than 0"}
	ErrInvalidBidIncrement     = &Error{"InvalidBidIncrement", "minimum increment must be greater than 0"}
	ErrBidIncrementTooLow      = &Error{"BidIncrementTooLow", "bid is below the minimum acceptable amount"}
	ErrAuctionNotEnded         = &Error{"AuctionNotEnded", "auction has not ended yet"}
	ErrAuctionEnded            = &Error{"AuctionEnded", "auction has already ended"}
	ErrAuctionAlreadyCompleted = &Error{"AuctionAlreadyCompleted", "auction is no longer active"}
	ErrAuctionHasBids          = &Error{"AuctionHasBids", "auction already has bids"}
	ErrNoBidsPlaced            = &Error{"NoBidsPlaced", "auction has no bids"}
	ErrAuctionNotFound         = &Error{"AuctionNotFound", "auction does not exist"}
	ErrAuctionExists           = &Error{"AuctionExists", "auction already exists"}
	ErrUnauthorized            = &Error{"Unauthorized", "signer is not the auction creator"}
	ErrInsufficientFunds       = &Error{"InsufficientFunds", "bidder cannot pay the bid"}
	ErrInsufficientAsset       = &Error{"InsufficientAsset", "creator does not hold the asset"}
	ErrCustodyViolation        = &Error{"CustodyViolation", "custody account is not controlled by the auction"}
	ErrInvalidStateTransition  = &Error{"InvalidStateTransition", "nothing to update"}
	ErrInvalidOpcode           = &Error{"InvalidOpcode", "unknown opcode"}
)

// newError returns a copy of base carrying extra detail.
func newError(base *Error, format string, args ...interface{}) *Error {
	return &Error{Code: base.Code, Msg: base.Msg + ", " + fmt.Sprintf(format, args...)}
}

// codeOf returns the code of an auction error, "Internal" for anything else.
func codeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "Internal"
}
