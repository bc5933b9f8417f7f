// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
)

var (
	accountPrefix = []byte("a") // (prefix, address) -> account
	storagePrefix = []byte("s") // (prefix, address, key) -> raw storage
	rootKey       = []byte("state-root")
)

// Account is the ledger representation of an account.
// RLP encoded objects are stored under the account key.
type Account struct {
	Balance *big.Int
	Master  []byte // module that owns the account, empty for keyed accounts
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance and no master.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0 && len(a.Master) == 0
}

func emptyAccount() *Account {
	return &Account{Balance: &big.Int{}}
}

func accountKey(addr meter.Address) []byte {
	return append(append([]byte(nil), accountPrefix...), addr[:]...)
}

func storageKeyBytes(addr meter.Address, key meter.Bytes32) []byte {
	k := make([]byte, 0, len(storagePrefix)+meter.AddressLength+32)
	k = append(k, storagePrefix...)
	k = append(k, addr[:]...)
	return append(k, key[:]...)
}

// loadAccount load an account object by address.
// It returns empty account is no account found at the address.
func loadAccount(r kv.Getter, addr meter.Address) (*Account, error) {
	data, err := r.Get(accountKey(addr))
	if err != nil {
		if r.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save account at given address.
// If the given account is empty, the value for given address is deleted.
func saveAccount(w kv.Putter, addr meter.Address, a *Account) error {
	if a.IsEmpty() {
		return w.Delete(accountKey(addr))
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return w.Put(accountKey(addr), data)
}

// loadStorage load storage data for given key.
func loadStorage(r kv.Getter, addr meter.Address, key meter.Bytes32) (rlp.RawValue, error) {
	data, err := r.Get(storageKeyBytes(addr, key))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// saveStorage save value for given key.
// If the data is zero, the given key will be deleted.
func saveStorage(w kv.Putter, addr meter.Address, key meter.Bytes32, data rlp.RawValue) error {
	if len(data) == 0 {
		return w.Delete(storageKeyBytes(addr, key))
	}
	return w.Put(storageKeyBytes(addr, key), data)
}
