// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx() *tx.Transaction {
	to, _ := meter.ParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	return new(tx.Builder).ChainTag(1).
		BlockRef(tx.BlockRef{0, 0, 0, 0, 0xaa, 0xbb, 0xcc, 0xdd}).
		Expiration(32).
		Clause(tx.NewClause(&to).WithValue(big.NewInt(10000)).WithData([]byte{0, 0, 0, 0x60, 0x60, 0x60})).
		Clause(tx.NewClause(&to).WithValue(big.NewInt(20000))).
		Nonce(12345678).Build()
}

func TestTx(t *testing.T) {
	trx := newTestTx()

	assert.False(t, trx.SigningHash().IsZero())
	assert.Equal(t, []byte(nil), trx.Signature())
	_, err := trx.Signer()
	assert.Equal(t, tx.ErrUnsigned, err)
	assert.Equal(t, tx.ErrUnsigned, trx.Validate())

	k, _ := hex.DecodeString("7582be841ca040aa940fff6c05773129e135623e41acce3e0b8ba520dc1ae26a")
	priv, _ := crypto.ToECDSA(k)
	sig, _ := crypto.Sign(trx.SigningHash().Bytes(), priv)

	signed := trx.WithSignature(sig)
	signer, err := signed.Signer()
	require.Nil(t, err)
	assert.Equal(t, "0xd989829d88b0ed1b06edf5c50174ecfa64f14a64", signer.String())
	assert.Equal(t, meter.Address(crypto.PubkeyToAddress(priv.PublicKey)), signer)
	assert.Equal(t, trx.SigningHash(), signed.SigningHash(), "signature is not part of the signing hash")
	assert.Nil(t, signed.Validate())
	assert.False(t, signed.ID().IsZero())

	data, err := rlp.EncodeToBytes(signed)
	require.Nil(t, err)
	var decoded tx.Transaction
	require.Nil(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, signed.ID(), decoded.ID())
	assert.Equal(t, 2, len(decoded.Clauses()))
	assert.Equal(t, big.NewInt(20000), decoded.Clauses()[1].Value())
}

func TestExpiration(t *testing.T) {
	trx := new(tx.Builder).BlockRef(tx.NewBlockRef(10)).Expiration(5).Build()
	assert.False(t, trx.IsExpired(15))
	assert.True(t, trx.IsExpired(16))
	assert.Equal(t, uint32(10), trx.BlockRef().Number())
}

func TestValidateClauses(t *testing.T) {
	k, _ := crypto.GenerateKey()
	empty := new(tx.Builder).Build()
	sig, _ := crypto.Sign(empty.SigningHash().Bytes(), k)
	assert.Equal(t, tx.ErrNoClause, empty.WithSignature(sig).Validate())

	b := new(tx.Builder)
	for i := 0; i <= meter.MaxTxClauses; i++ {
		b.Clause(tx.NewClause(&meter.Address{}))
	}
	many := b.Build()
	sig, _ = crypto.Sign(many.SigningHash().Bytes(), k)
	assert.Equal(t, tx.ErrTooManyClause, many.WithSignature(sig).Validate())
}
