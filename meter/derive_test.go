// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter_test

import (
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
)

func TestDeriveAddress(t *testing.T) {
	program := meter.BytesToAddress([]byte("program"))
	other := meter.BytesToAddress([]byte("other"))

	a := meter.DeriveAddress(program, []byte("escrow"), []byte("x"))
	assert.Equal(t, a, meter.DeriveAddress(program, []byte("escrow"), []byte("x")), "same seeds should give same address")
	assert.False(t, a.IsZero())

	assert.NotEqual(t, a, meter.DeriveAddress(program, []byte("authority"), []byte("x")))
	assert.NotEqual(t, a, meter.DeriveAddress(other, []byte("escrow"), []byte("x")))
	// seed boundaries are significant
	assert.NotEqual(t,
		meter.DeriveAddress(program, []byte("ab"), []byte("c")),
		meter.DeriveAddress(program, []byte("a"), []byte("bc")))
}

func TestUint64Seed(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, meter.Uint64Seed(258))
}
