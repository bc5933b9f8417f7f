// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

// Auction is the json form of an auction record, with live custody balances.
type Auction struct {
	Address       meter.Address        `json:"address"`
	Creator       meter.Address        `json:"creator"`
	Mint          meter.Bytes32        `json:"mint"`
	Vault         meter.Address        `json:"vault"`
	Escrow        meter.Address        `json:"escrow"`
	Seed          uint64               `json:"seed"`
	Status        string               `json:"status"`
	StartingBid   math.HexOrDecimal256 `json:"startingBid"`
	MinIncrement  math.HexOrDecimal256 `json:"minIncrement"`
	StartTime     uint64               `json:"startTime"`
	EndTime       uint64               `json:"endTime"`
	HighestBid    math.HexOrDecimal256 `json:"highestBid"`
	HighestBidder *meter.Address       `json:"highestBidder"`
	BidCount      uint64               `json:"bidCount"`
	MinNextBid    math.HexOrDecimal256 `json:"minNextBid"`
	Winner        *meter.Address       `json:"winner"`
	Fee           math.HexOrDecimal256 `json:"fee"`

	EscrowBalance math.HexOrDecimal256 `json:"escrowBalance"`
	VaultAmount   uint64               `json:"vaultAmount"`
}

// Derived lists the addresses an auction would use.
type Derived struct {
	Auction   meter.Address `json:"auction"`
	Authority meter.Address `json:"authority"`
	Escrow    meter.Address `json:"escrow"`
	Vault     meter.Address `json:"vault"`
}

func optAddress(addr meter.Address) *meter.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

func hexOrDecimal(i *big.Int) math.HexOrDecimal256 {
	if i == nil {
		return math.HexOrDecimal256{}
	}
	return math.HexOrDecimal256(*i)
}

func convertAuction(r *meter.AuctionRecord, escrowBalance *big.Int, vaultAmount uint64) *Auction {
	return &Auction{
		Address:       r.Address,
		Creator:       r.Creator,
		Mint:          r.Mint,
		Vault:         r.Vault,
		Escrow:        r.Escrow,
		Seed:          r.Seed,
		Status:        r.Status.String(),
		StartingBid:   hexOrDecimal(r.StartingBid),
		MinIncrement:  hexOrDecimal(r.MinIncrement),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		HighestBid:    hexOrDecimal(r.HighestBid),
		HighestBidder: optAddress(r.HighestBidder),
		BidCount:      r.BidCount,
		MinNextBid:    hexOrDecimal(r.MinNextBid()),
		Winner:        optAddress(r.Winner),
		Fee:           hexOrDecimal(r.Fee),
		EscrowBalance: hexOrDecimal(escrowBalance),
		VaultAmount:   vaultAmount,
	}
}

// HistoryEvent is one decoded auction event with where it happened.
type HistoryEvent struct {
	Name           string        `json:"name"`
	Data           interface{}   `json:"data"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
	TxID           meter.Bytes32 `json:"txID"`
	TxOrigin       meter.Address `json:"txOrigin"`
}

func convertHistoryEvent(e *logdb.Event) (*HistoryEvent, error) {
	if e.Topics[0] == nil {
		return nil, errors.New("event without signature")
	}
	name, data, err := auction.DecodeEvent(*e.Topics[0], e.Data)
	if err != nil {
		return nil, err
	}
	return &HistoryEvent{
		Name:           name,
		Data:           data,
		BlockNumber:    e.BlockNumber,
		BlockTimestamp: e.BlockTime,
		TxID:           e.TxID,
		TxOrigin:       e.TxOrigin,
	}, nil
}
