// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// BlockMessage block piped by websocket
type BlockMessage struct {
	Number       uint32          `json:"number"`
	ID           meter.Bytes32   `json:"id"`
	ParentID     meter.Bytes32   `json:"parentID"`
	Timestamp    uint64          `json:"timestamp"`
	TxsRoot      meter.Bytes32   `json:"txsRoot"`
	StateRoot    meter.Bytes32   `json:"stateRoot"`
	ReceiptsRoot meter.Bytes32   `json:"receiptsRoot"`
	Transactions []meter.Bytes32 `json:"transactions"`
}

func convertBlock(b *block.Block) *BlockMessage {
	header := b.Header()
	txs := b.Transactions()
	txIds := make([]meter.Bytes32, len(txs))
	for i, tx := range txs {
		txIds[i] = tx.ID()
	}
	return &BlockMessage{
		Number:       header.Number(),
		ID:           header.ID(),
		ParentID:     header.ParentID(),
		Timestamp:    header.Timestamp(),
		TxsRoot:      header.TxsRoot(),
		StateRoot:    header.StateRoot(),
		ReceiptsRoot: header.ReceiptsRoot(),
		Transactions: txIds,
	}
}

// BeatMessage is a light block header plus the auctions the block touched.
type BeatMessage struct {
	Number    uint32          `json:"number"`
	ID        meter.Bytes32   `json:"id"`
	ParentID  meter.Bytes32   `json:"parentID"`
	Timestamp uint64          `json:"timestamp"`
	Reverted  int             `json:"reverted"`
	Auctions  []meter.Address `json:"auctions"`
}

func convertBeat(header *block.Header, receipts tx.Receipts) *BeatMessage {
	msg := &BeatMessage{
		Number:    header.Number(),
		ID:        header.ID(),
		ParentID:  header.ParentID(),
		Timestamp: header.Timestamp(),
		Auctions:  []meter.Address{},
	}
	seen := make(map[meter.Address]bool)
	for _, r := range receipts {
		if r.Reverted {
			msg.Reverted++
			continue
		}
		for _, output := range r.Outputs {
			for _, ev := range output.Events {
				if ev.Address != meter.AuctionModuleAddr || len(ev.Topics) < 2 {
					continue
				}
				addr := meter.BytesToAddress(ev.Topics[1][12:])
				if !seen[addr] {
					seen[addr] = true
					msg.Auctions = append(msg.Auctions, addr)
				}
			}
		}
	}
	return msg
}

// EventFilter selects events pushed on the event subject.
type EventFilter struct {
	Address *meter.Address
	Topic0  *meter.Bytes32
	Topic1  *meter.Bytes32
	Topic2  *meter.Bytes32
	Topic3  *meter.Bytes32
	Topic4  *meter.Bytes32
}

func parseEventFilter(req *http.Request) (*EventFilter, error) {
	query := req.URL.Query()
	parseTopic := func(key string) (*meter.Bytes32, error) {
		s := query.Get(key)
		if s == "" {
			return nil, nil
		}
		t, err := meter.ParseBytes32(s)
		if err != nil {
			return nil, errors.WithMessage(err, key)
		}
		return &t, nil
	}
	var (
		f   EventFilter
		err error
	)
	if s := query.Get("addr"); s != "" {
		addr, err := meter.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "addr")
		}
		f.Address = &addr
	}
	for i, dst := range []**meter.Bytes32{&f.Topic0, &f.Topic1, &f.Topic2, &f.Topic3, &f.Topic4} {
		if *dst, err = parseTopic("t" + string(rune('0'+i))); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// Match returns whether event matches filter
func (ef *EventFilter) Match(event *tx.Event) bool {
	if (ef.Address != nil) && (*ef.Address != event.Address) {
		return false
	}

	matchTopic := func(topic *meter.Bytes32, index int) bool {
		if topic != nil {
			if len(event.Topics) <= index {
				return false
			}

			if *topic != event.Topics[index] {
				return false
			}
		}
		return true
	}

	return matchTopic(ef.Topic0, 0) &&
		matchTopic(ef.Topic1, 1) &&
		matchTopic(ef.Topic2, 2) &&
		matchTopic(ef.Topic3, 3) &&
		matchTopic(ef.Topic4, 4)
}

// EventMessage event piped by websocket
type EventMessage struct {
	Address meter.Address   `json:"address"`
	Topics  []meter.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    LogMeta         `json:"meta"`
}

// LogMeta locates an event.
type LogMeta struct {
	BlockID        meter.Bytes32 `json:"blockID"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
	TxID           meter.Bytes32 `json:"txID"`
	TxOrigin       meter.Address `json:"txOrigin"`
}

func convertEvent(header *block.Header, trx *tx.Transaction, event *tx.Event) (*EventMessage, error) {
	signer, err := trx.Signer()
	if err != nil {
		return nil, err
	}
	return &EventMessage{
		Address: event.Address,
		Topics:  event.Topics,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			BlockID:        header.ID(),
			BlockNumber:    header.Number(),
			BlockTimestamp: header.Timestamp(),
			TxID:           trx.ID(),
			TxOrigin:       signer,
		},
	}, nil
}
