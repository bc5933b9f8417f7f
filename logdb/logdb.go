// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// LogDB indexes events and transfers of settled txs.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	logger        *slog.Logger
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	logger := slog.Default().With("pkg", "logdb")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open logdb")
	}
	defer func() {
		if logDB == nil {
			if err := db.Close(); err != nil {
				logger.Warn("could not close logdb", "err", err)
			}
		}
	}()
	// an in-memory db lives only as long as its single connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("logdb opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		logger:        logger,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() {
	if err := db.db.Close(); err != nil {
		db.logger.Warn("could not close logdb", "err", err)
	}
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

func (db *LogDB) Prepare(header *block.Header) *BlockBatch {
	return &BlockBatch{
		db:     db.db,
		header: header,
		logger: db.logger,
	}
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	q := newQuery("event")
	if filter == nil {
		return db.queryEvents(ctx, q.page("eventIndex", ASC, nil))
	}
	q.inRange(filter.Range)
	if filter.TxID != nil {
		q.and("txID", filter.TxID.Bytes())
	}
	q.anyOf(len(filter.CriteriaSet), func(i int, sub *query) {
		criteria := filter.CriteriaSet[i]
		if criteria.Address != nil {
			sub.and("address", criteria.Address.Bytes())
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				sub.and(fmt.Sprintf("topic%d", j), topic.Bytes())
			}
		}
	})
	return db.queryEvents(ctx, q.page("eventIndex", filter.Order, filter.Options))
}

// AuctionHistory returns the events a module emitted about one auction, the
// auction being the first indexed topic, oldest first.
func (db *LogDB) AuctionHistory(ctx context.Context, module meter.Address, auction meter.Address, opts *Options) ([]*Event, error) {
	q := newQuery("event").
		and("address", module.Bytes()).
		and("topic1", meter.BytesToBytes32(auction.Bytes()).Bytes())
	return db.queryEvents(ctx, q.page("eventIndex", ASC, opts))
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	q := newQuery("transfer")
	if filter == nil {
		return db.queryTransfers(ctx, q.page("transferIndex", ASC, nil))
	}
	q.inRange(filter.Range)
	if filter.TxID != nil {
		q.and("txID", filter.TxID.Bytes())
	}
	if filter.Token != nil {
		q.and("token", *filter.Token)
	}
	q.anyOf(len(filter.CriteriaSet), func(i int, sub *query) {
		criteria := filter.CriteriaSet[i]
		if criteria.TxOrigin != nil {
			sub.and("txOrigin", criteria.TxOrigin.Bytes())
		}
		if criteria.Sender != nil {
			sub.and("sender", criteria.Sender.Bytes())
		}
		if criteria.Recipient != nil {
			sub.and("recipient", criteria.Recipient.Bytes())
		}
	})
	return db.queryTransfers(ctx, q.page("transferIndex", filter.Order, filter.Options))
}

func (db *LogDB) queryEvents(ctx context.Context, q *query) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, q.String(), q.args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockID     []byte
			index       uint32
			blockNumber uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			address     []byte
			topics      [5][]byte
			data        []byte
		)
		if err := rows.Scan(
			&blockID,
			&index,
			&blockNumber,
			&blockTime,
			&txID,
			&txOrigin,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			BlockID:     meter.BytesToBytes32(blockID),
			Index:       index,
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			TxID:        meter.BytesToBytes32(txID),
			TxOrigin:    meter.BytesToAddress(txOrigin),
			Address:     meter.BytesToAddress(address),
			Data:        data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := meter.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, q *query) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, q.String(), q.args...)
	if err != nil {
		return nil, errors.Wrap(err, "query transfers")
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			blockID     []byte
			index       uint32
			blockNumber uint32
			blockTime   uint64
			txID        []byte
			txOrigin    []byte
			sender      []byte
			recipient   []byte
			amount      []byte
			token       uint32
		)
		if err := rows.Scan(
			&blockID,
			&index,
			&blockNumber,
			&blockTime,
			&txID,
			&txOrigin,
			&sender,
			&recipient,
			&amount,
			&token,
		); err != nil {
			return nil, err
		}
		trans := &Transfer{
			BlockID:     meter.BytesToBytes32(blockID),
			Index:       index,
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			TxID:        meter.BytesToBytes32(txID),
			TxOrigin:    meter.BytesToAddress(txOrigin),
			Sender:      meter.BytesToAddress(sender),
			Recipient:   meter.BytesToAddress(recipient),
			Amount:      new(big.Int).SetBytes(amount),
			Token:       token,
		}
		transfers = append(transfers, trans)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *meter.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// BlockBatch collects the logs of one block and writes them in one sql tx.
type BlockBatch struct {
	db        *sql.DB
	header    *block.Header
	events    []*Event
	transfers []*Transfer
	logger    *slog.Logger
}

func (bb *BlockBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := bb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		if e := tx.Rollback(); e != nil {
			bb.logger.Warn("could not rollback", "err", e)
		}
		return err
	}
	return tx.Commit()
}

func (bb *BlockBatch) Commit() error {
	return bb.execInTx(func(tx *sql.Tx) error {
		for _, event := range bb.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event(blockID ,eventIndex, blockNumber ,blockTime ,txID ,txOrigin ,address ,topic0 ,topic1 ,topic2 ,topic3 ,topic4, data) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.BlockID.Bytes(),
				event.Index,
				event.BlockNumber,
				event.BlockTime,
				event.TxID.Bytes(),
				event.TxOrigin.Bytes(),
				event.Address.Bytes(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}

		for _, transfer := range bb.transfers {
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer(blockID ,transferIndex, blockNumber ,blockTime ,txID ,txOrigin ,sender ,recipient ,amount, token) VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				transfer.BlockID.Bytes(),
				transfer.Index,
				transfer.BlockNumber,
				transfer.BlockTime,
				transfer.TxID.Bytes(),
				transfer.TxOrigin.Bytes(),
				transfer.Sender.Bytes(),
				transfer.Recipient.Bytes(),
				transfer.Amount.Bytes(),
				transfer.Token,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (bb *BlockBatch) ForTransaction(txID meter.Bytes32, txOrigin meter.Address) struct {
	Insert func(tx.Events, tx.Transfers) *BlockBatch
} {
	return struct {
		Insert func(events tx.Events, transfers tx.Transfers) *BlockBatch
	}{
		func(events tx.Events, transfers tx.Transfers) *BlockBatch {
			for _, event := range events {
				bb.events = append(bb.events, newEvent(bb.header, uint32(len(bb.events)), txID, txOrigin, event))
			}
			for _, transfer := range transfers {
				bb.transfers = append(bb.transfers, newTransfer(bb.header, uint32(len(bb.transfers)), txID, txOrigin, transfer))
			}
			return bb
		},
	}
}
