// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/meterio/meter-auction/api/accounts"
	"github.com/meterio/meter-auction/api/assets"
	"github.com/meterio/meter-auction/api/auctions"
	"github.com/meterio/meter-auction/api/blocks"
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/api/node"
	"github.com/meterio/meter-auction/api/subscriptions"
	"github.com/meterio/meter-auction/api/transactions"
	"github.com/meterio/meter-auction/api/transfers"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/packer"
	"github.com/meterio/meter-auction/state"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds the knobs of the http surface.
type Config struct {
	AllowedOrigins string
	BacktraceLimit uint32
	BodyLimit      int64
	Version        string
}

// New return api router
func New(chain *chain.Chain, stateCreator *state.Creator, packer *packer.Packer, logDB *logdb.LogDB, cfg Config) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(cfg.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 200 * 1024
	}

	router := mux.NewRouter()

	router.Path("/metrics").Handler(promhttp.Handler())

	accounts.New(chain, stateCreator).
		Mount(router, "/accounts")
	auctions.New(chain, stateCreator, logDB).
		Mount(router, "/auctions")
	assets.New(chain, stateCreator).
		Mount(router, "/assets")
	events.New(logDB).
		Mount(router, "/logs/event")
	transfers.New(logDB).
		Mount(router, "/logs/transfer")
	blocks.New(chain).
		Mount(router, "/blocks")
	transactions.New(chain, packer).
		Mount(router, "/transactions")
	node.New(chain, cfg.Version).
		Mount(router, "/node")
	subs := subscriptions.New(chain, origins, cfg.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	var h http.Handler = router
	h = utils.BodyLimitMiddleware(cfg.BodyLimit)(h)
	h = utils.RequestIDMiddleware(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", utils.RequestIDHeader}),
		handlers.ExposedHeaders([]string{utils.RequestIDHeader}))(h)

	return h.ServeHTTP,
		subs.Close // subscriptions handles hijacked conns, which need to be closed
}
