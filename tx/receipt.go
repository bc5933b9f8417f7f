// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	// if the tx reverted
	Reverted bool
	// the named rejection when reverted
	RevertReason string
	// outputs of clauses in tx
	Outputs []*Output
}

// Output output of clause execution.
type Output struct {
	// events produced by the clause
	Events Events
	// transfer occurred in clause
	Transfers Transfers
	// data returned by the module
	Data []byte
}

// Receipts slice of receipts.
type Receipts []*Receipt

// RootHash computes the hash over the rlp of receipts.
func (rs Receipts) RootHash() (h meter.Bytes32) {
	hw := meter.NewBlake2b()
	if err := rlp.Encode(hw, rs); err != nil {
		return
	}
	hw.Sum(h[:0])
	return
}
