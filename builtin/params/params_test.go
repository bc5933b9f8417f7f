// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
)

func TestParamsGetSet(t *testing.T) {
	kv, _ := lvldb.NewMem()
	st, _ := state.New(meter.Bytes32{}, kv)
	setv := big.NewInt(10)
	key := meter.BytesToBytes32([]byte("key"))
	p := New(meter.BytesToAddress([]byte("par")), st)
	p.Set(key, setv)

	getv := p.Get(key)
	assert.Equal(t, setv, getv)

	assert.Nil(t, st.Err())
}

func TestFeePolicy(t *testing.T) {
	kv, _ := lvldb.NewMem()
	st, _ := state.New(meter.Bytes32{}, kv)
	p := New(meter.ParamsModuleAddr, st)

	rate, recipient := p.FeePolicy()
	assert.Equal(t, 0, rate.Sign(), "unset rate is zero")
	assert.True(t, recipient.IsZero())

	feeAddr := meter.BytesToAddress([]byte("fee-recipient"))
	p.Set(meter.KeyPlatformFeeRate, meter.InitialPlatformFeeRate)
	p.SetAddress(meter.KeyPlatformFeeRecipient, feeAddr)

	rate, recipient = p.FeePolicy()
	assert.Equal(t, int64(250), rate.Int64())
	assert.Equal(t, feeAddr, recipient)
	assert.Nil(t, st.Err())
}
