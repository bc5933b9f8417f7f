// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
)

// Block json form of a block, txs listed by id.
type Block struct {
	Number       uint32          `json:"number"`
	ID           meter.Bytes32   `json:"id"`
	ParentID     meter.Bytes32   `json:"parentID"`
	Timestamp    uint64          `json:"timestamp"`
	TxsRoot      meter.Bytes32   `json:"txsRoot"`
	StateRoot    meter.Bytes32   `json:"stateRoot"`
	ReceiptsRoot meter.Bytes32   `json:"receiptsRoot"`
	Transactions []meter.Bytes32 `json:"transactions"`
}

func convertBlock(b *block.Block) *Block {
	header := b.Header()
	txs := b.Transactions()
	txIds := make([]meter.Bytes32, len(txs))
	for i, tx := range txs {
		txIds[i] = tx.ID()
	}
	return &Block{
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
