// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	bloomfilter "github.com/holiman/bloomfilter/v2"
	"github.com/meterio/meter-auction/meter"
)

const (
	knownTxsCapacity      = 1 << 20
	knownTxsFalsePositive = 0.001
)

// txHasher feeds a tx id to the bloom filter. Tx ids are already uniformly
// distributed, so the first 8 bytes serve as the hash.
type txHasher meter.Bytes32

func (h txHasher) Write(p []byte) (n int, err error) { panic("not implemented") }
func (h txHasher) Sum(b []byte) []byte               { panic("not implemented") }
func (h txHasher) Reset()                            { panic("not implemented") }
func (h txHasher) BlockSize() int                    { panic("not implemented") }
func (h txHasher) Size() int                         { return 8 }
func (h txHasher) Sum64() uint64                     { return binary.BigEndian.Uint64(h[:8]) }

func newKnownTxs() (*bloomfilter.Filter, error) {
	return bloomfilter.NewOptimal(knownTxsCapacity, knownTxsFalsePositive)
}
