// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"encoding/hex"
	"fmt"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// BlockContext block context.
// Time is the trusted clock every deadline is checked against.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          meter.Bytes32
	Origin      meter.Address
	BlockRef    tx.BlockRef
	Expiration  uint32
	Nonce       uint64
	ClauseIndex uint32
}

func (ctx *TransactionContext) String() string {
	return fmt.Sprintf("txCtx{ID:%s Origin:%s BlockRef:%s Exp:%d Nonce:%d Clause:%d}", ctx.ID.String(), ctx.Origin.String(), "0x"+hex.EncodeToString(ctx.BlockRef[:]), ctx.Expiration, ctx.Nonce, ctx.ClauseIndex)
}
