// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockID     meter.Bytes32
	Index       uint32
	BlockNumber uint32
	BlockTime   uint64
	TxID        meter.Bytes32
	TxOrigin    meter.Address // tx signer
	Address     meter.Address // the emitting module
	Topics      [5]*meter.Bytes32
	Data        []byte
}

// newEvent converts tx.Event to Event.
func newEvent(header *block.Header, index uint32, txID meter.Bytes32, txOrigin meter.Address, txEvent *tx.Event) *Event {
	ev := &Event{
		BlockID:     header.ID(),
		Index:       index,
		BlockNumber: header.Number(),
		BlockTime:   header.Timestamp(),
		TxID:        txID,
		TxOrigin:    txOrigin,
		Address:     txEvent.Address,
		Data:        txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		ev.Topics[i] = &txEvent.Topics[i]
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	BlockID     meter.Bytes32
	Index       uint32
	BlockNumber uint32
	BlockTime   uint64
	TxID        meter.Bytes32
	TxOrigin    meter.Address
	Sender      meter.Address
	Recipient   meter.Address
	Amount      *big.Int
	Token       uint32
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(header *block.Header, index uint32, txID meter.Bytes32, txOrigin meter.Address, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		BlockID:     header.ID(),
		Index:       index,
		BlockNumber: header.Number(),
		BlockTime:   header.Timestamp(),
		TxID:        txID,
		TxOrigin:    txOrigin,
		Sender:      transfer.Sender,
		Recipient:   transfer.Recipient,
		Amount:      transfer.Amount,
		Token:       uint32(transfer.Token),
	}
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *meter.Address // module address
	Topics  [5]*meter.Bytes32
}

// EventFilter filter
type EventFilter struct {
	TxID        *meter.Bytes32
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	TxOrigin  *meter.Address // tx signer
	Sender    *meter.Address // who transferred
	Recipient *meter.Address // who received
}

type TransferFilter struct {
	TxID        *meter.Bytes32
	Token       *uint32 // meter.TokenCurrency or meter.TokenAsset
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
