// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// AuctionBody is the payload of every auction clause. Fields unused by an
// opcode are left zero.
type AuctionBody struct {
	Opcode          uint32
	Version         uint32
	Auction         meter.Address
	Mint            meter.Bytes32
	Seed            uint64
	StartingBid     *big.Int
	MinIncrement    *big.Int
	Duration        uint64
	Amount          *big.Int
	NewDuration     uint64
	NewMinIncrement *big.Int
}

func newBody(op uint32) *AuctionBody {
	return &AuctionBody{
		Opcode:          op,
		StartingBid:     new(big.Int),
		MinIncrement:    new(big.Int),
		Amount:          new(big.Int),
		NewMinIncrement: new(big.Int),
	}
}

// NewInitBody builds the body of initialize. The auction address is derived from
// creator, mint and seed by the module, so it is not part of the body.
func NewInitBody(mint meter.Bytes32, seed uint64, startingBid, minIncrement *big.Int, duration uint64) *AuctionBody {
	b := newBody(meter.OP_INIT)
	b.Mint = mint
	b.Seed = seed
	b.StartingBid = startingBid
	b.MinIncrement = minIncrement
	b.Duration = duration
	return b
}

func NewBidBody(auction meter.Address, amount *big.Int) *AuctionBody {
	b := newBody(meter.OP_BID)
	b.Auction = auction
	b.Amount = amount
	return b
}

func NewFinalizeBody(auction meter.Address) *AuctionBody {
	b := newBody(meter.OP_FINALIZE)
	b.Auction = auction
	return b
}

func NewCancelBody(auction meter.Address) *AuctionBody {
	b := newBody(meter.OP_CANCEL)
	b.Auction = auction
	return b
}

func NewWithdrawBody(auction meter.Address) *AuctionBody {
	b := newBody(meter.OP_WITHDRAW)
	b.Auction = auction
	return b
}

func NewUpdateBody(auction meter.Address, newDuration uint64, newMinIncrement *big.Int) *AuctionBody {
	b := newBody(meter.OP_UPDATE)
	b.Auction = auction
	b.NewDuration = newDuration
	b.NewMinIncrement = newMinIncrement
	return b
}

func (ab *AuctionBody) ToString() string {
	return fmt.Sprintf("AuctionBody: Opcode=%v, Version=%v, Auction=%v, Mint=%v, Seed=%v, StartingBid=%v, MinIncrement=%v, Duration=%v, Amount=%v, NewDuration=%v, NewMinIncrement=%v",
		ab.Opcode, ab.Version, ab.Auction, ab.Mint, ab.Seed, bigString(ab.StartingBid), bigString(ab.MinIncrement), ab.Duration, bigString(ab.Amount), ab.NewDuration, bigString(ab.NewMinIncrement))
}

func (ab *AuctionBody) GetOpName(op uint32) string {
	return meter.GetOpName(op)
}

// UniteHash identifies the operation independent of its encoding.
func (ab *AuctionBody) UniteHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		ab.Opcode,
		ab.Version,
		ab.Auction,
		ab.Mint,
		ab.Seed,
		orZero(ab.StartingBid),
		orZero(ab.MinIncrement),
		ab.Duration,
		orZero(ab.Amount),
		ab.NewDuration,
		orZero(ab.NewMinIncrement),
	})
	if err != nil {
		return
	}
	hw.Sum(hash[:0])
	return
}

func EncodeToBytes(ab *AuctionBody) ([]byte, error) {
	return rlp.EncodeToBytes(ab)
}

func DecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func bigString(v *big.Int) string {
	return orZero(v).String()
}
