// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/block"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
)

// Clause for json marshal
type Clause struct {
	To    *meter.Address       `json:"to"`
	Value math.HexOrDecimal256 `json:"value"`
	Data  string               `json:"data"`
}

// Clauses array of clauses.
type Clauses []Clause

// ConvertClause convert a raw clause into a json format clause
func convertClause(c *tx.Clause) Clause {
	return Clause{
		c.To(),
		math.HexOrDecimal256(*c.Value()),
		hexutil.Encode(c.Data()),
	}
}

// RawTx raw tx
type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	var trx *tx.Transaction
	if err := rlp.DecodeBytes(data, &trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// SendBody is the body of POST /transactions. Either Raw is set, or the tx
// fields are given in the clear. Without a signature the signing hash is
// returned instead of submitting.
type SendBody struct {
	Raw        string  `json:"raw,omitempty"`
	ChainTag   uint8   `json:"chainTag,omitempty"`
	BlockRef   string  `json:"blockRef,omitempty"`
	Expiration uint32  `json:"expiration,omitempty"`
	Clauses    Clauses `json:"clauses,omitempty"`
	Nonce      uint64  `json:"nonce,omitempty"`
	Signature  string  `json:"signature,omitempty"`
}

func (b *SendBody) decode() (*tx.Transaction, error) {
	if len(b.Clauses) == 0 {
		return nil, errors.New("clauses: empty")
	}
	builder := new(tx.Builder).
		ChainTag(b.ChainTag).
		Expiration(b.Expiration).
		Nonce(b.Nonce)
	if b.BlockRef != "" {
		ref, err := hexutil.Decode(b.BlockRef)
		if err != nil {
			return nil, errors.WithMessage(err, "blockRef")
		}
		if len(ref) != 8 {
			return nil, errors.New("blockRef: should be 8 bytes")
		}
		var br tx.BlockRef
		copy(br[:], ref)
		builder.BlockRef(br)
	}
	for i, c := range b.Clauses {
		data, err := hexutil.Decode(c.Data)
		if err != nil {
			return nil, errors.WithMessagef(err, "clauses[%d].data", i)
		}
		v := big.Int(c.Value)
		builder.Clause(tx.NewClause(c.To).WithValue(&v).WithData(data))
	}
	trx := builder.Build()
	if b.Signature == "" {
		return trx, nil
	}
	sig, err := hexutil.Decode(b.Signature)
	if err != nil {
		return nil, errors.WithMessage(err, "signature")
	}
	return trx.WithSignature(sig), nil
}

// SendResult the outcome of a submitted tx.
type SendResult struct {
	ID           meter.Bytes32 `json:"id"`
	Reverted     bool          `json:"reverted"`
	RevertReason string        `json:"revertReason,omitempty"`
	Meta         TxMeta        `json:"meta"`
}

// TxMeta the block a tx was packed into.
type TxMeta struct {
	BlockID        meter.Bytes32 `json:"blockID"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
}

func newTxMeta(h *block.Header) TxMeta {
	return TxMeta{
		BlockID:        h.ID(),
		BlockNumber:    h.Number(),
		BlockTimestamp: h.Timestamp(),
	}
}

type rawTransaction struct {
	RawTx
	Meta TxMeta `json:"meta"`
}

// Transaction transaction
type Transaction struct {
	ID         meter.Bytes32       `json:"id"`
	ChainTag   byte                `json:"chainTag"`
	BlockRef   string              `json:"blockRef"`
	Expiration uint32              `json:"expiration"`
	Clauses    Clauses             `json:"clauses"`
	Origin     meter.Address       `json:"origin"`
	Nonce      math.HexOrDecimal64 `json:"nonce"`
	Size       uint32              `json:"size"`
	Meta       TxMeta              `json:"meta"`
}

// convertTransaction convert a raw transaction into a json format transaction
func convertTransaction(trx *tx.Transaction, header *block.Header) (*Transaction, error) {
	signer, err := trx.Signer()
	if err != nil {
		return nil, err
	}
	raw, err := rlp.EncodeToBytes(trx)
	if err != nil {
		return nil, err
	}
	br := trx.BlockRef()
	cls := make(Clauses, len(trx.Clauses()))
	for i, c := range trx.Clauses() {
		cls[i] = convertClause(c)
	}
	return &Transaction{
		ID:         trx.ID(),
		ChainTag:   trx.ChainTag(),
		BlockRef:   hexutil.Encode(br[:]),
		Expiration: trx.Expiration(),
		Clauses:    cls,
		Origin:     signer,
		Nonce:      math.HexOrDecimal64(trx.Nonce()),
		Size:       uint32(len(raw)),
		Meta:       newTxMeta(header),
	}, nil
}

// LogMeta locates a log.
type LogMeta struct {
	BlockID        meter.Bytes32 `json:"blockID"`
	BlockNumber    uint32        `json:"blockNumber"`
	BlockTimestamp uint64        `json:"blockTimestamp"`
	TxID           meter.Bytes32 `json:"txID"`
	TxOrigin       meter.Address `json:"txOrigin"`
}

// Receipt for json marshal
type Receipt struct {
	Reverted     bool        `json:"reverted"`
	RevertReason string      `json:"revertReason,omitempty"`
	Meta         ReceiptMeta `json:"meta"`
	Outputs      []*Output   `json:"outputs"`
}

// ReceiptMeta the tx and block a receipt belongs to.
type ReceiptMeta struct {
	TxMeta
	TxID     meter.Bytes32 `json:"txID"`
	TxOrigin meter.Address `json:"txOrigin"`
}

// Output output of clause execution.
type Output struct {
	Events    []*Event    `json:"events"`
	Transfers []*Transfer `json:"transfers"`
	Data      string      `json:"data"`
}

// Event event.
type Event struct {
	Address meter.Address   `json:"address"`
	Topics  []meter.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
}

// Transfer transfer log.
type Transfer struct {
	Sender    meter.Address         `json:"sender"`
	Recipient meter.Address         `json:"recipient"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Token     byte                  `json:"token"`
}

// convertReceipt convert a raw clause into a json format clause
func convertReceipt(txReceipt *tx.Receipt, header *block.Header, trx *tx.Transaction) (*Receipt, error) {
	signer, err := trx.Signer()
	if err != nil {
		return nil, err
	}
	receipt := &Receipt{
		Reverted:     txReceipt.Reverted,
		RevertReason: txReceipt.RevertReason,
		Meta: ReceiptMeta{
			TxMeta:   newTxMeta(header),
			TxID:     trx.ID(),
			TxOrigin: signer,
		},
		Outputs: make([]*Output, len(txReceipt.Outputs)),
	}
	for i, output := range txReceipt.Outputs {
		otp := &Output{
			Events:    make([]*Event, len(output.Events)),
			Transfers: make([]*Transfer, len(output.Transfers)),
			Data:      hexutil.Encode(output.Data),
		}
		for j, txEvent := range output.Events {
			otp.Events[j] = &Event{
				Address: txEvent.Address,
				Topics:  txEvent.Topics,
				Data:    hexutil.Encode(txEvent.Data),
			}
		}
		for j, txTransfer := range output.Transfers {
			otp.Transfers[j] = &Transfer{
				Sender:    txTransfer.Sender,
				Recipient: txTransfer.Recipient,
				Amount:    (*math.HexOrDecimal256)(txTransfer.Amount),
				Token:     txTransfer.Token,
			}
		}
		receipt.Outputs[i] = otp
	}
	return receipt, nil
}
