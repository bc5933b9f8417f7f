// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

const (
	OP_MINT     = uint32(1)
	OP_TRANSFER = uint32(2)
)

func GetAssetOpName(op uint32) string {
	switch op {
	case OP_MINT:
		return "Mint"
	case OP_TRANSFER:
		return "Transfer"
	default:
		return "Unknown"
	}
}
