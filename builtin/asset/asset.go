// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset keeps indivisible asset mints and their holdings.
// A holding is a keyless account derived from (mint, owner); its contents move
// only when the caller presents the owner as authority.
package asset

import (
	"errors"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

var (
	ErrMintExists        = errors.New("mint already exists")
	ErrUnknownMint       = errors.New("unknown mint")
	ErrZeroSupply        = errors.New("supply must be greater than 0")
	ErrZeroAmount        = errors.New("amount must be greater than 0")
	ErrNotOwner          = errors.New("authority does not own the holding")
	ErrInsufficientAsset = errors.New("insufficient asset in holding")
)

var (
	mintPrefix    = []byte("mint")
	holdingPrefix = []byte("holding")
)

// MintInfo describes a mint.
type MintInfo struct {
	Mint      meter.Bytes32
	Creator   meter.Address
	Name      string
	Supply    uint64
	CreatedAt uint64
}

// Holding is the amount of one mint held by one owner.
type Holding struct {
	Address meter.Address
	Mint    meter.Bytes32
	Owner   meter.Address
	Amount  uint64
}

// Asset binder of the asset module storage.
type Asset struct {
	addr  meter.Address
	state *state.State
}

func New(addr meter.Address, state *state.State) *Asset {
	return &Asset{addr, state}
}

// MintID derives the id of a mint from its creator and name.
func MintID(creator meter.Address, name string) meter.Bytes32 {
	return meter.Blake2b(mintPrefix, creator[:], []byte(name))
}

// HoldingAddress derives the keyless holding account of owner for mint.
func HoldingAddress(mint meter.Bytes32, owner meter.Address) meter.Address {
	return meter.DeriveAddress(meter.AssetModuleAddr, meter.HoldingSeed, mint[:], owner[:])
}

func mintKey(mint meter.Bytes32) meter.Bytes32 {
	return meter.Blake2b(mintPrefix, mint[:])
}

func holdingKey(addr meter.Address) meter.Bytes32 {
	return meter.Blake2b(holdingPrefix, addr[:])
}

// GetMint returns nil if the mint does not exist.
func (a *Asset) GetMint(mint meter.Bytes32) (info *MintInfo) {
	a.state.DecodeStorage(a.addr, mintKey(mint), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var m MintInfo
		if err := rlp.DecodeBytes(raw, &m); err != nil {
			return err
		}
		info = &m
		return nil
	})
	return
}

// CreateMint registers the mint and credits the whole supply to creator.
func (a *Asset) CreateMint(creator meter.Address, name string, supply uint64, timestamp uint64) (meter.Bytes32, error) {
	if supply == 0 {
		return meter.Bytes32{}, ErrZeroSupply
	}
	mint := MintID(creator, name)
	if a.GetMint(mint) != nil {
		return meter.Bytes32{}, ErrMintExists
	}
	info := &MintInfo{
		Mint:      mint,
		Creator:   creator,
		Name:      name,
		Supply:    supply,
		CreatedAt: timestamp,
	}
	a.state.EncodeStorage(a.addr, mintKey(mint), func() ([]byte, error) {
		return rlp.EncodeToBytes(info)
	})
	h := a.holding(mint, creator)
	h.Amount = supply
	a.setHolding(h)
	return mint, nil
}

// GetHolding returns nil if nothing was ever held at addr.
func (a *Asset) GetHolding(addr meter.Address) (h *Holding) {
	a.state.DecodeStorage(a.addr, holdingKey(addr), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		var v Holding
		if err := rlp.DecodeBytes(raw, &v); err != nil {
			return err
		}
		h = &v
		return nil
	})
	return
}

// Balance returns the amount of mint held by owner.
func (a *Asset) Balance(mint meter.Bytes32, owner meter.Address) uint64 {
	if h := a.GetHolding(HoldingAddress(mint, owner)); h != nil {
		return h.Amount
	}
	return 0
}

// Transfer moves amount units of mint from the holding of from to the holding of to.
// The destination holding is created when needed.
func (a *Asset) Transfer(mint meter.Bytes32, from, to meter.Address, amount uint64, authority meter.Address) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if a.GetMint(mint) == nil {
		return ErrUnknownMint
	}
	src := a.holding(mint, from)
	if src.Owner != authority {
		return ErrNotOwner
	}
	if src.Amount < amount {
		return ErrInsufficientAsset
	}
	if from == to {
		return nil
	}
	dst := a.holding(mint, to)

	src.Amount -= amount
	dst.Amount += amount
	a.setHolding(src)
	a.setHolding(dst)
	return nil
}

func (a *Asset) holding(mint meter.Bytes32, owner meter.Address) *Holding {
	addr := HoldingAddress(mint, owner)
	if h := a.GetHolding(addr); h != nil {
		return h
	}
	return &Holding{Address: addr, Mint: mint, Owner: owner}
}

func (a *Asset) setHolding(h *Holding) {
	a.state.EncodeStorage(a.addr, holdingKey(h.Address), func() ([]byte, error) {
		return rlp.EncodeToBytes(h)
	})
}
