// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/builtin"
	basset "github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevnet(t *testing.T) {
	g := genesis.MustNewDevnet()
	assert.Equal(t, "devnet", g.Name())
	assert.Equal(t, uint32(0), g.Block().Header().Number())

	kv, _ := lvldb.NewMem()
	creator := state.NewCreator(kv)
	blk, err := g.Build(creator)
	require.Nil(t, err)
	assert.Equal(t, g.ID(), blk.Header().ID())

	root, err := state.LatestRoot(kv)
	require.Nil(t, err)
	assert.Equal(t, blk.Header().StateRoot(), root)

	st, err := creator.NewState(root)
	require.Nil(t, err)
	dev := genesis.DevAccounts()
	assert.Equal(t, 10, len(dev))
	assert.Equal(t, "1000000000000000000000000000", st.GetBalance(dev[1].Address).String())

	rate, recipient := builtin.Params.Native(st).FeePolicy()
	assert.Equal(t, meter.InitialPlatformFeeRate.String(), rate.String())
	assert.Equal(t, dev[0].Address, recipient)

	mint := basset.MintID(dev[0].Address, genesis.DevMintName)
	assert.Equal(t, genesis.DevMintSupply, builtin.Asset.Native(st).Balance(mint, dev[0].Address))
}

func TestDevnetConfig(t *testing.T) {
	a := genesis.MustNewDevnet()
	b, err := genesis.NewDevnet(genesis.Config{FeeRate: big.NewInt(0), FeeRecipient: meter.Address{}})
	require.Nil(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), genesis.MustNewDevnet().ID())

	_, err = genesis.NewDevnet(genesis.Config{FeeRate: big.NewInt(10001)})
	assert.NotNil(t, err)
}
