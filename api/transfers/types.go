// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
)

type FilteredTransfer struct {
	Sender    meter.Address         `json:"sender"`
	Recipient meter.Address         `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Meta      transactions.LogMeta  `json:"meta"`
	Token     uint32                `json:"token"`
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	v := math.HexOrDecimal256(*transfer.Amount)
	return &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    &v,
		Token:     transfer.Token,
		Meta: transactions.LogMeta{
			BlockID:        transfer.BlockID,
			BlockNumber:    transfer.BlockNumber,
			BlockTimestamp: transfer.BlockTime,
			TxID:           transfer.TxID,
			TxOrigin:       transfer.TxOrigin,
		},
	}
}

type TransferCriteria struct {
	TxOrigin  *meter.Address `json:"txOrigin"`
	Sender    *meter.Address `json:"sender"`
	Recipient *meter.Address `json:"recipient"`
}

type TransferFilter struct {
	TxID        *meter.Bytes32      `json:"txID"`
	Token       *uint32             `json:"token"`
	CriteriaSet []*TransferCriteria `json:"criteriaSet"`
	Range       *logdb.Range        `json:"range"`
	Options     *logdb.Options      `json:"options"`
	Order       logdb.Order         `json:"order"`
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	f := &logdb.TransferFilter{
		TxID:    filter.TxID,
		Token:   filter.Token,
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			TxOrigin:  c.TxOrigin,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return f
}
