// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/utils"
	basset "github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/packer"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	t     *testing.T
	chain *chain.Chain
	nonce uint64
}

func newTestServer(t *testing.T) *testServer {
	kv, err := lvldb.NewMem()
	require.Nil(t, err)
	creator := state.NewCreator(kv)
	b0, err := genesis.MustNewDevnet().Build(creator)
	require.Nil(t, err)
	c, err := chain.New(kv, b0)
	require.Nil(t, err)
	logDB, err := logdb.NewMem()
	require.Nil(t, err)
	t.Cleanup(logDB.Close)

	p := packer.New(c, creator, script.NewScriptEngine(), logDB)
	p.SetClock(func() uint64 { return genesis.DevnetLaunchTime + 10 })

	handler, closeFn := api.New(c, creator, p, logDB, api.Config{AllowedOrigins: "*", BacktraceLimit: 100, Version: "test"})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeFn()
		ts.Close()
	})
	return &testServer{Server: ts, t: t, chain: c}
}

func (ts *testServer) get(path string, v interface{}) int {
	res, err := http.Get(ts.URL + path)
	require.Nil(ts.t, err)
	defer res.Body.Close()
	if v != nil && res.StatusCode == http.StatusOK {
		require.Nil(ts.t, json.NewDecoder(res.Body).Decode(v))
	}
	return res.StatusCode
}

func (ts *testServer) post(path string, body interface{}, v interface{}) int {
	data, err := json.Marshal(body)
	require.Nil(ts.t, err)
	res, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.Nil(ts.t, err)
	defer res.Body.Close()
	if v != nil && res.StatusCode == http.StatusOK {
		require.Nil(ts.t, json.NewDecoder(res.Body).Decode(v))
	}
	return res.StatusCode
}

func (ts *testServer) send(signer genesis.DevAccount, body interface{}) *transactions.SendResult {
	clause, err := script.NewBuilder(body).Clause()
	require.Nil(ts.t, err)
	ts.nonce++
	trx := new(tx.Builder).ChainTag(ts.chain.Tag()).Expiration(math.MaxUint32).Nonce(ts.nonce).Clause(clause).Build()
	sig, err := crypto.Sign(trx.SigningHash().Bytes(), signer.PrivateKey)
	require.Nil(ts.t, err)
	raw, err := rlp.EncodeToBytes(trx.WithSignature(sig))
	require.Nil(ts.t, err)

	var result transactions.SendResult
	require.Equal(ts.t, http.StatusOK, ts.post("/transactions", transactions.RawTx{Raw: hexutil.Encode(raw)}, &result))
	return &result
}

func bigOf(h interface{ String() string }) string {
	return h.String()
}

func TestAuctionOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	dev := genesis.DevAccounts()
	seller, alice := dev[0], dev[1]
	mint := basset.MintID(seller.Address, genesis.DevMintName)

	var derived auctions.Derived
	require.Equal(t, http.StatusOK, ts.get(fmt.Sprintf("/auctions/derive?creator=%v&mint=%v&seed=5", seller.Address, mint), &derived))
	assert.Equal(t, auction.AuctionAddress(seller.Address, mint, 5), derived.Auction)
	assert.Equal(t, auction.EscrowAddress(derived.Auction), derived.Escrow)

	res := ts.send(seller, auction.NewInitBody(mint, 5, big.NewInt(100), big.NewInt(10), 60))
	require.False(t, res.Reverted, res.RevertReason)
	assert.Equal(t, uint32(1), res.Meta.BlockNumber)

	res = ts.send(alice, auction.NewBidBody(derived.Auction, big.NewInt(90)))
	assert.True(t, res.Reverted)
	assert.Contains(t, res.RevertReason, auction.ErrBidIncrementTooLow.Code)

	res = ts.send(alice, auction.NewBidBody(derived.Auction, big.NewInt(100)))
	require.False(t, res.Reverted, res.RevertReason)

	var auc auctions.Auction
	require.Equal(t, http.StatusOK, ts.get("/auctions/"+derived.Auction.String(), &auc))
	assert.Equal(t, "Active", auc.Status)
	assert.Equal(t, uint64(1), auc.BidCount)
	assert.Equal(t, alice.Address, *auc.HighestBidder)
	assert.Equal(t, "110", bigOf((*big.Int)(&auc.MinNextBid)))
	assert.Equal(t, "100", bigOf((*big.Int)(&auc.EscrowBalance)))
	assert.Equal(t, uint64(1), auc.VaultAmount)

	var history []map[string]interface{}
	require.Equal(t, http.StatusOK, ts.get("/auctions/"+derived.Auction.String()+"/history", &history))
	// the reverted low bid left no event
	require.Equal(t, 2, len(history))
	assert.Equal(t, "AuctionCreated", history[0]["name"])
	assert.Equal(t, "BidPlaced", history[1]["name"])
	assert.Equal(t, res.ID.String(), history[1]["txID"])
	assert.Equal(t, http.StatusBadRequest, ts.get("/auctions/"+derived.Auction.String()+"/history?limit=x", nil))

	var escrow accounts.Account
	require.Equal(t, http.StatusOK, ts.get("/accounts/"+derived.Escrow.String(), &escrow))
	assert.True(t, escrow.Custody)
	assert.Equal(t, "100", bigOf((*big.Int)(&escrow.Balance)))

	var receipt transactions.Receipt
	require.Equal(t, http.StatusOK, ts.get("/transactions/"+res.ID.String()+"/receipt", &receipt))
	assert.False(t, receipt.Reverted)
	assert.Equal(t, alice.Address, receipt.Meta.TxOrigin)

	var status node.Status
	require.Equal(t, http.StatusOK, ts.get("/node/status", &status))
	assert.Equal(t, uint32(3), status.BestBlockNum)
	assert.Equal(t, "test", status.Version)

	assert.Equal(t, http.StatusBadRequest, ts.get("/auctions/derive?creator=zz", nil))
}

func TestBadTransactions(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, ts.post("/transactions", map[string]string{"raw": "0xzz"}, nil))
	assert.Equal(t, http.StatusBadRequest, ts.post("/transactions", map[string]string{"unknown": "1"}, nil))

	// without a signature the signing hash comes back
	to := genesis.DevAccounts()[1].Address
	var out map[string]string
	body := transactions.SendBody{
		ChainTag:   ts.chain.Tag(),
		Expiration: 10,
		Clauses:    transactions.Clauses{{To: &to, Data: "0x"}},
	}
	require.Equal(t, http.StatusOK, ts.post("/transactions", body, &out))
	assert.True(t, strings.HasPrefix(out["signingHash"], "0x"))
}

func TestMiddleware(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/metrics")
	require.Nil(t, err)
	data, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(data), "best_block_number")
	assert.NotEmpty(t, res.Header.Get(utils.RequestIDHeader))

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/node/status", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	res, err = http.DefaultClient.Do(req)
	require.Nil(t, err)
	res.Body.Close()
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
