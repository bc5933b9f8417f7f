// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auction is the escrowed single-asset auction module of the script engine.
package auction

import (
	"log/slog"
	"time"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/metric"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

type Auction struct {
	logger *slog.Logger
}

func NewAuction() *Auction {
	return &Auction{
		logger: slog.Default().With("pkg", "auction"),
	}
}

// Handle decodes payload and runs the operation it names on behalf of the tx signer.
func (a *Auction) Handle(senv *setypes.ScriptEnv, payload []byte) (err error) {
	ab, err := DecodeFromBytes(payload)
	if err != nil {
		a.logger.Error("decode auction body failed", "err", err)
		return errors.Wrap(err, "decode auction body")
	}

	opName := ab.GetOpName(ab.Opcode)
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = codeOf(err)
			senv.SetReturnData([]byte(err.Error()))
		}
		metric.AuctionOp(opName, result)
		a.logger.Debug(opName+" completed", "auction", ab.Auction, "result", result, "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	env := newEnv(a, senv)
	switch ab.Opcode {
	case meter.OP_INIT:
		err = ab.HandleInit(env)
	case meter.OP_BID:
		err = ab.HandleBid(env)
	case meter.OP_FINALIZE:
		err = ab.HandleFinalize(env)
	case meter.OP_CANCEL:
		err = ab.HandleCancel(env)
	case meter.OP_WITHDRAW:
		err = ab.HandleWithdraw(env)
	case meter.OP_UPDATE:
		err = ab.HandleUpdate(env)
	default:
		err = newError(ErrInvalidOpcode, "opcode %v", ab.Opcode)
	}
	return
}
