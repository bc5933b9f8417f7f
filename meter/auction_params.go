// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

const (
	OP_INIT     = uint32(1)
	OP_BID      = uint32(2)
	OP_FINALIZE = uint32(3)
	OP_CANCEL   = uint32(4)
	OP_WITHDRAW = uint32(5)
	OP_UPDATE   = uint32(6)
)

// seeds of the auction derived accounts
var (
	AuctionSeed   = []byte("auction")
	AuthoritySeed = []byte("authority")
	EscrowSeed    = []byte("escrow")
	HoldingSeed   = []byte("holding")
)

func GetOpName(op uint32) string {
	switch op {
	case OP_INIT:
		return "Init"
	case OP_BID:
		return "Bid"
	case OP_FINALIZE:
		return "Finalize"
	case OP_CANCEL:
		return "Cancel"
	case OP_WITHDRAW:
		return "Withdraw"
	case OP_UPDATE:
		return "Update"
	default:
		return "Unknown"
	}
}
