// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"log/slog"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
)

// Stage abstracts changes on the accounts and storage.
type Stage struct {
	err error

	kv      kv.GetPutter
	root    meter.Bytes32
	entries []stageEntry
	logger  *slog.Logger
}

type stageEntry struct {
	Addr    meter.Address
	Account []byte // rlp of account, empty when deleted or unchanged
	Touched bool   // account changed
	Keys    []meter.Bytes32
	Values  []rlp.RawValue
}

func newStage(parent meter.Bytes32, kv kv.GetPutter, changes map[meter.Address]*changedObject, logger *slog.Logger) *Stage {
	addrs := make([]meter.Address, 0, len(changes))
	for addr := range changes {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})

	entries := make([]stageEntry, 0, len(addrs))
	for _, addr := range addrs {
		obj := changes[addr]
		entry := stageEntry{Addr: addr}
		if obj.data != nil {
			entry.Touched = true
			if !obj.data.IsEmpty() {
				data, err := rlp.EncodeToBytes(obj.data)
				if err != nil {
					return &Stage{err: err}
				}
				entry.Account = data
			}
		}
		keys := make([]meter.Bytes32, 0, len(obj.storage))
		for k := range obj.storage {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return bytes.Compare(keys[i][:], keys[j][:]) < 0
		})
		for _, k := range keys {
			entry.Keys = append(entry.Keys, k)
			entry.Values = append(entry.Values, obj.storage[k])
		}
		entries = append(entries, entry)
	}

	root, err := stageRoot(parent, entries)
	if err != nil {
		return &Stage{err: err}
	}
	return &Stage{
		kv:      kv,
		root:    root,
		entries: entries,
		logger:  logger,
	}
}

// the new root commits to the parent root and the ordered change set.
func stageRoot(parent meter.Bytes32, entries []stageEntry) (root meter.Bytes32, err error) {
	if len(entries) == 0 {
		return parent, nil
	}
	hw := meter.NewBlake2b()
	if err = rlp.Encode(hw, []interface{}{parent, entries}); err != nil {
		return
	}
	hw.Sum(root[:0])
	return
}

// Hash computes the state root after the changes.
func (s *Stage) Hash() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	return s.root, nil
}

// Len returns the count of touched addresses.
func (s *Stage) Len() int {
	return len(s.entries)
}

// Commit writes all changes in one atomic batch.
func (s *Stage) Commit() (meter.Bytes32, error) {
	if s.err != nil {
		return meter.Bytes32{}, s.err
	}
	start := time.Now()
	batch := s.kv.NewBatch()
	for _, e := range s.entries {
		if e.Touched {
			if len(e.Account) == 0 {
				if err := batch.Delete(accountKey(e.Addr)); err != nil {
					return meter.Bytes32{}, err
				}
			} else if err := batch.Put(accountKey(e.Addr), e.Account); err != nil {
				return meter.Bytes32{}, err
			}
		}
		for i, k := range e.Keys {
			if err := saveStorage(batch, e.Addr, k, e.Values[i]); err != nil {
				return meter.Bytes32{}, err
			}
		}
	}
	if err := batch.Put(rootKey, s.root[:]); err != nil {
		return meter.Bytes32{}, err
	}
	if err := batch.Write(); err != nil {
		return meter.Bytes32{}, err
	}

	s.logger.Debug("commited stage", "root", s.root, "accounts", len(s.entries), "elapsed", meter.PrettyDuration(time.Since(start)))
	return s.root, nil
}

// LatestRoot returns the root of the last committed stage.
func LatestRoot(r kv.Getter) (meter.Bytes32, error) {
	data, err := r.Get(rootKey)
	if err != nil {
		if r.IsNotFound(err) {
			return meter.Bytes32{}, nil
		}
		return meter.Bytes32{}, err
	}
	return meter.BytesToBytes32(data), nil
}
