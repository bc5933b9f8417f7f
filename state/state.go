// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/stackedmap"
)

// State manages accounts and module storage on top of a flat kv layout.
// All writes are journaled and only reach the kv through Stage().Commit().
type State struct {
	root     meter.Bytes32 // commitment of the parent state
	kv       kv.GetPutter
	accounts map[meter.Address]*Account
	storage  map[storageKey]rlp.RawValue
	sm       *stackedmap.StackedMap // keeps revisions of accounts state
	err      error
	setError func(err error)
	logger   *slog.Logger
}

// New create an state object.
func New(root meter.Bytes32, kv kv.GetPutter) (*State, error) {
	state := State{
		root:     root,
		kv:       kv,
		accounts: make(map[meter.Address]*Account),
		storage:  make(map[storageKey]rlp.RawValue),
		logger:   slog.With("pkg", "state"),
	}
	state.setError = func(err error) {
		if state.err == nil {
			state.err = err
		}
	}
	state.sm = stackedmap.New(func(key interface{}) (value interface{}, exist bool, err error) {
		return state.cacheGetter(key)
	})
	return &state, nil
}

// implements stackedmap.MapGetter
func (s *State) cacheGetter(key interface{}) (value interface{}, exist bool, err error) {
	switch k := key.(type) {
	case meter.Address: // get account
		if a, ok := s.accounts[k]; ok {
			return a, true, nil
		}
		a, err := loadAccount(s.kv, k)
		if err != nil {
			s.setError(err)
			return emptyAccount(), true, nil
		}
		s.accounts[k] = a
		return a, true, nil
	case storageKey: // get storage
		if v, ok := s.storage[k]; ok {
			return v, true, nil
		}
		v, err := loadStorage(s.kv, k.addr, k.key)
		if err != nil {
			s.setError(err)
			return rlp.RawValue(nil), true, nil
		}
		s.storage[k] = v
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// build changes via journal of stackedMap.
func (s *State) changes() map[meter.Address]*changedObject {
	changes := make(map[meter.Address]*changedObject)

	getOrNewObj := func(addr meter.Address) *changedObject {
		if obj, ok := changes[addr]; ok {
			return obj
		}
		obj := &changedObject{}
		changes[addr] = obj
		return obj
	}

	s.sm.Journal(func(k, v interface{}) bool {
		switch key := k.(type) {
		case meter.Address:
			acc := *(v.(*Account))
			getOrNewObj(key).data = &acc
		case storageKey:
			o := getOrNewObj(key.addr)
			if o.storage == nil {
				o.storage = make(map[meter.Bytes32]rlp.RawValue)
			}
			o.storage[key.key] = v.(rlp.RawValue)
		}
		// abort if error occurred
		return s.err == nil
	})
	return changes
}

// the returned account should not be modified
func (s *State) getAccount(addr meter.Address) *Account {
	v, _, _ := s.sm.Get(addr)
	return v.(*Account)
}

func (s *State) getAccountCopy(addr meter.Address) Account {
	return *s.getAccount(addr)
}

func (s *State) updateAccount(addr meter.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// Root returns the commitment of the state this object was built on.
func (s *State) Root() meter.Bytes32 {
	return s.root
}

// Err returns first occurred error.
func (s *State) Err() error {
	return s.err
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr meter.Address) *big.Int {
	return s.getAccount(addr).Balance
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr meter.Address, balance *big.Int) {
	cpy := s.getAccountCopy(addr)
	cpy.Balance = balance
	s.updateAccount(addr, &cpy)
}

// SubBalance returns false and leaves the balance untouched if it is insufficient.
func (s *State) SubBalance(addr meter.Address, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}

	balance := s.GetBalance(addr)
	if balance.Cmp(amount) < 0 {
		return false
	}

	s.SetBalance(addr, new(big.Int).Sub(balance, amount))
	return true
}

// AddBalance stub.
func (s *State) AddBalance(addr meter.Address, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	balance := s.GetBalance(addr)
	s.SetBalance(addr, new(big.Int).Add(balance, amount))
}

// GetMaster get master for the given address.
// A non-zero master marks a custody account owned by that module.
func (s *State) GetMaster(addr meter.Address) meter.Address {
	return meter.BytesToAddress(s.getAccount(addr).Master)
}

// SetMaster set master for the given address.
func (s *State) SetMaster(addr meter.Address, master meter.Address) {
	cpy := s.getAccountCopy(addr)
	if master.IsZero() {
		cpy.Master = nil
	} else {
		cpy.Master = append([]byte(nil), master[:]...)
	}
	s.updateAccount(addr, &cpy)
}

// IsCustody returns whether the account is owned by a module.
func (s *State) IsCustody(addr meter.Address) bool {
	return len(s.getAccount(addr).Master) > 0
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr meter.Address, key meter.Bytes32) meter.Bytes32 {
	raw := s.GetRawStorage(addr, key)
	if len(raw) == 0 {
		return meter.Bytes32{}
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		s.setError(err)
		return meter.Bytes32{}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return meter.Blake2b(raw)
	}
	return meter.BytesToBytes32(content)
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr meter.Address, key, value meter.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}

	v, err := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr meter.Address, key meter.Bytes32) rlp.RawValue {
	data, _, _ := s.sm.Get(storageKey{addr, key})
	return data.(rlp.RawValue)
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr meter.Address, key meter.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr meter.Address, key meter.Bytes32, enc func() ([]byte, error)) {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr meter.Address, key meter.Bytes32, dec func([]byte) error) {
	raw := s.GetRawStorage(addr, key)
	if err := dec(raw); err != nil {
		s.setError(err)
	}
}

// Exists returns whether an account exists at the given address.
// See Account.IsEmpty()
func (s *State) Exists(addr meter.Address) bool {
	return !s.getAccount(addr).IsEmpty()
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute hash of changes or commit them.
func (s *State) Stage() *Stage {
	if s.err != nil {
		return &Stage{err: s.err}
	}
	changes := s.changes()
	if s.err != nil {
		return &Stage{err: s.err}
	}

	return newStage(s.root, s.kv, changes, s.logger)
}

type (
	storageKey struct {
		addr meter.Address
		key  meter.Bytes32
	}
	changedObject struct {
		data    *Account // nil if only storage changed
		storage map[meter.Bytes32]rlp.RawValue
	}
)
