// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/meterio/meter-auction/builtin/asset"
	"github.com/meterio/meter-auction/meter"
)

// AuctionAddress derives the identity of the auction created by creator for mint.
func AuctionAddress(creator meter.Address, mint meter.Bytes32, seed uint64) meter.Address {
	return meter.DeriveAddress(meter.AuctionModuleAddr, meter.AuctionSeed, creator[:], mint[:], meter.Uint64Seed(seed))
}

// AuthorityAddress derives the keyless authority that owns the vault of the auction.
func AuthorityAddress(auction meter.Address) meter.Address {
	return meter.DeriveAddress(meter.AuctionModuleAddr, meter.AuthoritySeed, auction[:])
}

// EscrowAddress derives the account holding the current highest bid.
func EscrowAddress(auction meter.Address) meter.Address {
	return meter.DeriveAddress(meter.AuctionModuleAddr, meter.EscrowSeed, auction[:])
}

// VaultAddress is the asset holding of the authority for mint.
func VaultAddress(mint meter.Bytes32, auction meter.Address) meter.Address {
	return asset.HoldingAddress(mint, AuthorityAddress(auction))
}

// custodian is the only path by which escrow funds and vault contents move.
// It acts with the authority it recomputes from the auction address.
type custodian struct {
	env       *AuctionEnv
	record    *meter.AuctionRecord
	authority meter.Address
}

func newCustodian(env *AuctionEnv, r *meter.AuctionRecord) *custodian {
	return &custodian{env: env, record: r, authority: AuthorityAddress(r.Address)}
}

func (c *custodian) check() error {
	st := c.env.GetState()
	if c.record.Escrow != EscrowAddress(c.record.Address) || st.GetMaster(c.record.Escrow) != meter.AuctionModuleAddr {
		return newError(ErrCustodyViolation, "escrow %v", c.record.Escrow)
	}
	if st.GetMaster(c.authority) != meter.AuctionModuleAddr {
		return newError(ErrCustodyViolation, "authority %v", c.authority)
	}
	if c.record.Vault != VaultAddress(c.record.Mint, c.record.Address) {
		return newError(ErrCustodyViolation, "vault %v", c.record.Vault)
	}
	if h := c.env.Assets().GetHolding(c.record.Vault); h != nil && h.Owner != c.authority {
		return newError(ErrCustodyViolation, "vault owner %v", h.Owner)
	}
	return nil
}

// deposit moves amount from payer into escrow.
func (c *custodian) deposit(payer meter.Address, amount *big.Int) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.env.TransferCurrency(payer, c.record.Escrow, amount); err != nil {
		return newError(ErrInsufficientFunds, "%v", err)
	}
	return nil
}

// release pays amount out of escrow to recipient.
func (c *custodian) release(recipient meter.Address, amount *big.Int) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.env.TransferCurrency(c.record.Escrow, recipient, amount); err != nil {
		return newError(ErrCustodyViolation, "escrow short: %v", err)
	}
	return nil
}

// lockAsset moves one unit of the mint from owner into the vault. owner signs.
func (c *custodian) lockAsset(owner meter.Address) error {
	err := c.env.Assets().Transfer(c.record.Mint, owner, c.authority, 1, owner)
	if err != nil {
		return newError(ErrInsufficientAsset, "%v", err)
	}
	c.env.LogAssetTransfer(asset.HoldingAddress(c.record.Mint, owner), c.record.Vault, 1)
	return nil
}

// releaseAsset moves the vaulted unit to recipient, signed by the authority.
func (c *custodian) releaseAsset(recipient meter.Address) error {
	if err := c.check(); err != nil {
		return err
	}
	err := c.env.Assets().Transfer(c.record.Mint, c.authority, recipient, 1, c.authority)
	if err != nil {
		return newError(ErrCustodyViolation, "vault: %v", err)
	}
	c.env.LogAssetTransfer(c.record.Vault, asset.HoldingAddress(c.record.Mint, recipient), 1)
	return nil
}
