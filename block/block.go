// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/tx"
)

// Block is an immutable block type.
type Block struct {
	BlockHeader *Header
	Txs         tx.Transactions
}

// Compose compose a block with all needed components
// Note: This method is usually to recover a block by its portions, and the TxsRoot is not verified.
// To build up a block, use a Builder.
func Compose(header *Header, txs tx.Transactions) *Block {
	return &Block{
		BlockHeader: header,
		Txs:         append(tx.Transactions(nil), txs...),
	}
}

// Header returns the block header.
func (b *Block) Header() *Header {
	return b.BlockHeader
}

// Transactions returns a copy of transactions.
func (b *Block) Transactions() tx.Transactions {
	return append(tx.Transactions(nil), b.Txs...)
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{
		&b.BlockHeader.Body,
		b.Txs,
	})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	payload := struct {
		Header HeaderBody
		Txs    tx.Transactions
	}{}

	if err := s.Decode(&payload); err != nil {
		return err
	}

	*b = Block{
		BlockHeader: &Header{Body: payload.Header},
		Txs:         payload.Txs,
	}
	return nil
}

func (b *Block) String() string {
	return fmt.Sprintf(`Block(%v){
BlockHeader: %v,
Transactions: %v,
}`, b.BlockHeader.Number(), b.BlockHeader, b.Txs)
}

func (b *Block) Oneliner() string {
	header := b.BlockHeader
	return fmt.Sprintf("Block(%v) %v - #Txs:%v, Parent:%v ",
		header.Number(), header.ID().String(), len(b.Txs), header.ParentID())
}
