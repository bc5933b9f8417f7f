// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
)

var derivePrefix = []byte("meter-derived-address")

// DeriveAddress returns the keyless address owned by program for the given seeds.
// Seeds are rlp list-encoded, so the boundaries between them are part of the hash.
func DeriveAddress(program Address, seeds ...[]byte) Address {
	hw := NewBlake2b()
	if err := rlp.Encode(hw, []interface{}{derivePrefix, program, seeds}); err != nil {
		panic(err)
	}
	var h Bytes32
	hw.Sum(h[:0])
	return BytesToAddress(h[12:])
}

// Uint64Seed encodes n as a big-endian seed.
func Uint64Seed(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}
