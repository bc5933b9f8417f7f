// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"encoding/hex"
	"log/slog"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/asset"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

var (
	ErrPatternMismatch = errors.New("script pattern mismatch")
	ErrUnknownModule   = errors.New("unknown module")
	ErrUnrecognized    = errors.New("unrecognized body")
)

// ScriptEngine dispatches script clauses to the registered modules.
type ScriptEngine struct {
	logger *slog.Logger
	modReg Registry
}

func NewScriptEngine() *ScriptEngine {
	se := &ScriptEngine{
		logger: slog.Default().With("pkg", "se"),
	}

	// start all sub modules
	se.StartAllModules()
	return se
}

func (se *ScriptEngine) StartAllModules() {
	ModuleAssetInit(se)
	ModuleAuctionInit(se)
}

// Modules lists the registered modules.
func (se *ScriptEngine) Modules() []Module {
	return se.modReg.All()
}

// IsScriptData reports whether clause data is addressed to the script engine.
func IsScriptData(data []byte) bool {
	return len(data) >= len(ScriptPrefix)+len(ScriptPattern) && bytes.Equal(data[:len(ScriptPrefix)], ScriptPrefix[:])
}

// HandleScriptData runs the module named by the script header. data starts right
// after the script prefix. State touched by a failing module is reverted before
// the error is returned, so a clause either applies entirely or not at all.
func (se *ScriptEngine) HandleScriptData(senv *setypes.ScriptEnv, data []byte) (*setypes.ScriptEngineOutput, error) {
	if len(data) < len(ScriptPattern) || !bytes.Equal(data[:len(ScriptPattern)], ScriptPattern[:]) {
		n := len(ScriptPattern)
		if len(data) < n {
			n = len(data)
		}
		return nil, errors.Wrapf(ErrPatternMismatch, "pattern = %v", hex.EncodeToString(data[:n]))
	}
	script, err := DecodeScriptData(data[len(ScriptPattern):])
	if err != nil {
		se.logger.Debug("decode script data failed", "err", err)
		return nil, errors.Wrap(err, "decode script data")
	}

	header := script.Header
	mod, find := se.modReg.Find(header.GetModID())
	if !find {
		return nil, errors.Wrapf(ErrUnknownModule, "id %v", header.GetModID())
	}

	st := senv.GetState()
	checkpoint := st.NewCheckpoint()
	if err := mod.modHandler(senv, script.Payload); err != nil {
		st.RevertTo(checkpoint)
		return nil, err
	}
	if err := st.Err(); err != nil {
		st.RevertTo(checkpoint)
		return nil, err
	}
	return senv.GetOutput(), nil
}

func moduleOf(body interface{}) (uint32, meter.Address, error) {
	switch body.(type) {
	case auction.AuctionBody, *auction.AuctionBody:
		return AUCTION_MODULE_ID, meter.AuctionModuleAddr, nil
	case asset.AssetBody, *asset.AssetBody:
		return ASSET_MODULE_ID, meter.AssetModuleAddr, nil
	default:
		return 0, meter.Address{}, ErrUnrecognized
	}
}

// ModuleAddress returns the address a clause carrying body is sent to.
func ModuleAddress(body interface{}) (meter.Address, error) {
	_, addr, err := moduleOf(body)
	return addr, err
}

// EncodeScriptData wraps body into clause data: prefix, pattern, then rlp(ScriptData).
func EncodeScriptData(body interface{}) ([]byte, error) {
	modId, _, err := moduleOf(body)
	if err != nil {
		return []byte{}, err
	}
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return []byte{}, errors.Wrap(err, "rlp encode body")
	}
	s := &ScriptData{Header: ScriptHeader{Version: uint32(0), ModID: modId}, Payload: payload}
	data, err := rlp.EncodeToBytes(s)
	if err != nil {
		return []byte{}, errors.Wrap(err, "rlp encode script data")
	}
	scriptBytes := make([]byte, 0, len(ScriptPrefix)+len(ScriptPattern)+len(data))
	scriptBytes = append(scriptBytes, ScriptPrefix[:]...)
	scriptBytes = append(scriptBytes, ScriptPattern[:]...)
	scriptBytes = append(scriptBytes, data...)

	return scriptBytes, nil
}

func DecodeScriptData(bytes []byte) (*ScriptData, error) {
	script := ScriptData{}
	err := rlp.DecodeBytes(bytes, &script)
	return &script, err
}
