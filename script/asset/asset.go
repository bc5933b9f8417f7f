// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset exposes mint and transfer of indivisible assets as script clauses.
package asset

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/builtin"
	basset "github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

var (
	ErrInvalidOpcode  = errors.New("unknown asset opcode")
	ErrCustodyAccount = errors.New("recipient is a custody account")
)

// MintedEvent is the topic of a new mint.
var MintedEvent = meter.Blake2b([]byte("Minted(bytes32,address,uint64)"))

type AssetBody struct {
	Opcode  uint32
	Version uint32
	Name    string
	Supply  uint64
	Mint    meter.Bytes32
	To      meter.Address
	Amount  uint64
}

func NewMintBody(name string, supply uint64) *AssetBody {
	return &AssetBody{Opcode: meter.OP_MINT, Name: name, Supply: supply}
}

func NewTransferBody(mint meter.Bytes32, to meter.Address, amount uint64) *AssetBody {
	return &AssetBody{Opcode: meter.OP_TRANSFER, Mint: mint, To: to, Amount: amount}
}

func (ab *AssetBody) ToString() string {
	return fmt.Sprintf("AssetBody: Opcode=%v, Version=%v, Name=%v, Supply=%v, Mint=%v, To=%v, Amount=%v",
		ab.Opcode, ab.Version, ab.Name, ab.Supply, ab.Mint, ab.To, ab.Amount)
}

func DecodeFromBytes(bytes []byte) (*AssetBody, error) {
	ab := AssetBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}

type AssetModule struct {
	logger *slog.Logger
}

func NewAssetModule() *AssetModule {
	return &AssetModule{logger: slog.Default().With("pkg", "asset")}
}

// Handle runs a mint or transfer signed by the tx origin.
func (m *AssetModule) Handle(senv *setypes.ScriptEnv, payload []byte) error {
	ab, err := DecodeFromBytes(payload)
	if err != nil {
		return errors.Wrap(err, "decode asset body")
	}
	start := time.Now()
	defer func() {
		m.logger.Debug(meter.GetAssetOpName(ab.Opcode)+" completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	assets := builtin.Asset.Native(senv.GetState())
	signer := senv.GetSigner()
	switch ab.Opcode {
	case meter.OP_MINT:
		mint, err := assets.CreateMint(signer, ab.Name, ab.Supply, senv.Now())
		if err != nil {
			return err
		}
		data, err := rlp.EncodeToBytes([]interface{}{signer, ab.Supply})
		if err != nil {
			return err
		}
		senv.AddEvent(meter.AssetModuleAddr, []meter.Bytes32{MintedEvent, mint}, data)
		senv.SetReturnData(mint.Bytes())
		m.logger.Info("minted", "mint", mint, "creator", signer, "supply", ab.Supply)
		return nil
	case meter.OP_TRANSFER:
		if senv.GetState().IsCustody(ab.To) {
			return errors.Wrapf(ErrCustodyAccount, "to %v", ab.To)
		}
		if err := assets.Transfer(ab.Mint, signer, ab.To, ab.Amount, signer); err != nil {
			return err
		}
		senv.LogAssetTransfer(basset.HoldingAddress(ab.Mint, signer), basset.HoldingAddress(ab.Mint, ab.To), ab.Amount)
		return nil
	default:
		return errors.Wrapf(ErrInvalidOpcode, "opcode %v", ab.Opcode)
	}
}
