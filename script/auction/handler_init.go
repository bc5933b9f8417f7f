// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// HandleInit creates the auction, its escrow and vault, and locks the asset.
func (ab *AuctionBody) HandleInit(env *AuctionEnv) error {
	if ab.Duration == 0 {
		return ErrInvalidDuration
	}
	if ab.StartingBid == nil || ab.StartingBid.Sign() <= 0 {
		return ErrInvalidStartingBid
	}
	if ab.MinIncrement == nil || ab.MinIncrement.Sign() <= 0 {
		return ErrInvalidBidIncrement
	}

	state := env.GetState()
	creator := env.GetSigner()
	addr := AuctionAddress(creator, ab.Mint, ab.Seed)
	if state.GetAuctionRecord(addr) != nil {
		return newError(ErrAuctionExists, "address %v", addr)
	}
	if env.Assets().Balance(ab.Mint, creator) < 1 {
		return newError(ErrInsufficientAsset, "mint %v", ab.Mint)
	}

	now := env.Now()
	r := meter.NewAuctionRecord(addr, creator, ab.Mint, ab.Seed)
	r.Escrow = EscrowAddress(addr)
	r.Vault = VaultAddress(ab.Mint, addr)
	r.StartingBid = new(big.Int).Set(ab.StartingBid)
	r.MinIncrement = new(big.Int).Set(ab.MinIncrement)
	r.StartTime = now
	r.EndTime = now + ab.Duration

	if state.IsCustody(r.Escrow) || state.GetBalance(r.Escrow).Sign() != 0 {
		return newError(ErrCustodyViolation, "escrow %v already in use", r.Escrow)
	}
	authority := AuthorityAddress(addr)
	if state.IsCustody(authority) {
		return newError(ErrCustodyViolation, "authority %v already in use", authority)
	}
	if h := env.Assets().GetHolding(r.Vault); h != nil && h.Amount != 0 {
		return newError(ErrCustodyViolation, "vault %v not empty", r.Vault)
	}
	state.SetMaster(r.Escrow, meter.AuctionModuleAddr)
	state.SetMaster(authority, meter.AuctionModuleAddr)

	if err := newCustodian(env, r).lockAsset(creator); err != nil {
		return err
	}
	state.SetAuctionRecord(r)

	env.emit(AuctionCreatedEvent, addr, &AuctionCreated{
		Creator:     creator,
		Mint:        r.Mint,
		StartingBid: r.StartingBid,
		EndTime:     r.EndTime,
	})
	env.SetReturnData(addr.Bytes())
	env.GetAuction().logger.Info("auction created", "auction", addr, "creator", creator, "mint", r.Mint, "end", r.EndTime)
	return nil
}
