// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metric holds the prometheus collectors of the ledger.
package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	auctionOpsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_ops_total",
		Help: "Counter of auction operations by opcode and result",
	}, []string{"op", "result"})
	txExecutedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tx_executed_total",
		Help: "Counter of executed transactions",
	}, []string{"reverted"})
	bestBlockGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "best_block_number",
		Help: "BestBlock height",
	})
	txExecutionHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tx_execution_seconds",
		Help:    "Time spent executing a transaction",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(auctionOpsCounter, txExecutedCounter, bestBlockGauge, txExecutionHistogram)
}

// AuctionOp counts one auction operation. result is "ok" or the error code.
func AuctionOp(op, result string) {
	auctionOpsCounter.WithLabelValues(op, result).Inc()
}

func TxExecuted(reverted bool, elapsed time.Duration) {
	txExecutedCounter.WithLabelValues(strconv.FormatBool(reverted)).Inc()
	txExecutionHistogram.Observe(elapsed.Seconds())
}

func SetBestBlock(num uint32) {
	bestBlockGauge.Set(float64(num))
}
