// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	basset "github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/asset"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	key, _ = crypto.GenerateKey()
	origin = meter.Address(crypto.PubkeyToAddress(key.PublicKey))
	to     = meter.BytesToAddress([]byte("to"))
)

func newRuntime(t *testing.T) (*runtime.Runtime, *state.State) {
	kv, err := lvldb.NewMem()
	require.Nil(t, err)
	st, err := state.New(meter.Bytes32{}, kv)
	require.Nil(t, err)
	st.SetBalance(origin, big.NewInt(1000))
	return runtime.New(script.NewScriptEngine(), st, &xenv.BlockContext{Number: 1, Time: 1000}), st
}

func sign(t *testing.T, clauses ...*tx.Clause) *tx.Transaction {
	b := new(tx.Builder).Expiration(100).Nonce(1)
	for _, c := range clauses {
		b.Clause(c)
	}
	trx := b.Build()
	sig, err := crypto.Sign(trx.SigningHash().Bytes(), key)
	require.Nil(t, err)
	return trx.WithSignature(sig)
}

func scriptClause(t *testing.T, body interface{}) *tx.Clause {
	c, err := script.NewBuilder(body).Clause()
	require.Nil(t, err)
	return c
}

func TestValueTransfer(t *testing.T) {
	rt, st := newRuntime(t)

	receipt, err := rt.ExecuteTransaction(sign(t, tx.NewClause(&to).WithValue(big.NewInt(300))))
	require.Nil(t, err)
	assert.False(t, receipt.Reverted)
	require.Equal(t, 1, len(receipt.Outputs))
	require.Equal(t, 1, len(receipt.Outputs[0].Transfers))
	assert.Equal(t, meter.TokenCurrency, receipt.Outputs[0].Transfers[0].Token)
	assert.Equal(t, "700", st.GetBalance(origin).String())
	assert.Equal(t, "300", st.GetBalance(to).String())
}

func TestRevertWholeTx(t *testing.T) {
	rt, st := newRuntime(t)

	// the second clause overdraws, so the first must be undone as well
	receipt, err := rt.ExecuteTransaction(sign(t,
		tx.NewClause(&to).WithValue(big.NewInt(600)),
		tx.NewClause(&to).WithValue(big.NewInt(600)),
	))
	require.Nil(t, err)
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.RevertReason, runtime.ErrInsufficientBalance.Error())
	assert.Nil(t, receipt.Outputs)
	assert.Equal(t, "1000", st.GetBalance(origin).String())
	assert.Equal(t, "0", st.GetBalance(to).String())
}

func TestScriptClauses(t *testing.T) {
	rt, st := newRuntime(t)

	receipt, err := rt.ExecuteTransaction(sign(t, scriptClause(t, asset.NewMintBody("painting", 1))))
	require.Nil(t, err)
	require.False(t, receipt.Reverted, receipt.RevertReason)
	mint := basset.MintID(origin, "painting")
	assert.Equal(t, mint.Bytes(), receipt.Outputs[0].Data)

	init := scriptClause(t, auction.NewInitBody(mint, 1, big.NewInt(10), big.NewInt(1), 60))
	receipt, err = rt.ExecuteTransaction(sign(t, init))
	require.Nil(t, err)
	require.False(t, receipt.Reverted, receipt.RevertReason)
	addr := auction.AuctionAddress(origin, mint, 1)
	r := st.GetAuctionRecord(addr)
	require.NotNil(t, r)

	// custody accounts cannot take or give plain value
	receipt, err = rt.ExecuteTransaction(sign(t, tx.NewClause(&r.Escrow).WithValue(big.NewInt(1))))
	require.Nil(t, err)
	assert.True(t, receipt.Reverted)
	assert.Contains(t, receipt.RevertReason, runtime.ErrCustodyAccount.Error())

	// a script clause carrying value is refused
	receipt, err = rt.ExecuteTransaction(sign(t, scriptClause(t, auction.NewBidBody(addr, big.NewInt(10))).WithValue(big.NewInt(10))))
	require.Nil(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, runtime.ErrScriptWithValue.Error(), receipt.RevertReason)
}

func TestInvalidTx(t *testing.T) {
	rt, _ := newRuntime(t)

	_, err := rt.ExecuteTransaction(new(tx.Builder).Clause(tx.NewClause(&to)).Build())
	assert.Equal(t, tx.ErrUnsigned, err)

	clause := tx.NewClause(nil).WithValue(big.NewInt(1))
	receipt, err := rt.ExecuteTransaction(sign(t, clause))
	require.Nil(t, err)
	assert.Equal(t, runtime.ErrNoRecipient.Error(), receipt.RevertReason)
}
