// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	var r Registry
	mod := &Module{modName: "test", modID: 42}
	assert.Nil(t, r.Register(42, mod))
	assert.NotNil(t, r.Register(42, mod))
	assert.Nil(t, r.ForceRegister(42, &Module{modName: "replaced", modID: 42}))

	found, ok := r.Find(42)
	require.True(t, ok)
	assert.Equal(t, "replaced", found.modName)
	_, ok = r.Find(43)
	assert.False(t, ok)
	assert.Len(t, r.All(), 1)
}

func TestModuleErrorReverts(t *testing.T) {
	kv, err := lvldb.NewMem()
	require.Nil(t, err)
	st, err := state.New(meter.Bytes32{}, kv)
	require.Nil(t, err)
	addr := meter.BytesToAddress([]byte("touched"))
	st.SetBalance(addr, big.NewInt(1))

	failure := errors.New("boom")
	se := NewScriptEngine()
	se.modReg.ForceRegister(7, &Module{modName: "failing", modID: 7, modHandler: func(senv *setypes.ScriptEnv, payload []byte) error {
		senv.GetState().SetBalance(addr, big.NewInt(100))
		senv.GetState().SetMaster(addr, meter.AuctionModuleAddr)
		return failure
	}})

	payload, err := rlp.EncodeToBytes(&ScriptData{Header: ScriptHeader{ModID: 7}})
	require.Nil(t, err)
	senv := setypes.NewScriptEnv(st, &xenv.BlockContext{}, &xenv.TransactionContext{})
	_, err = se.HandleScriptData(senv, append(ScriptPattern[:], payload...))
	assert.Equal(t, failure, err)
	assert.Equal(t, "1", st.GetBalance(addr).String())
	assert.False(t, st.IsCustody(addr))
}
