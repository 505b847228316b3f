// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// State is a revertable view of the kv store.
// Values written are kept in memory and can be reverted to any checkpoint.
type State struct {
	store kv.Store
	cache *cache.LRU // committed values, shared by states over the same store
	sm    *stackedmap.StackedMap[string, []byte]
}

// New create state object.
// c can be nil.
func New(store kv.Store, c *cache.LRU) *State {
	state := State{
		store: store,
		cache: c,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	state.sm.Push()
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
// A missing key yields a nil value, which is also how deletion is recorded.
func (s *State) cacheGetter(key string) ([]byte, bool, error) {
	load := func(k any) (any, error) {
		metricStateAccess().AddWithLabel(1, map[string]string{"type": "store"})
		v, err := s.store.Get([]byte(k.(string)))
		if err != nil {
			if s.store.IsNotFound(err) {
				return []byte(nil), nil
			}
			return nil, err
		}
		return v, nil
	}

	if s.cache == nil {
		v, err := load(key)
		if err != nil {
			return nil, false, err
		}
		return v.([]byte), true, nil
	}
	v, err := s.cache.GetOrLoad(key, load)
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), true, nil
}

// GetRaw returns the raw value for the given key, nil if absent.
// The returned slice must not be modified.
func (s *State) GetRaw(key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRaw sets the raw value. A nil or empty value deletes the key.
func (s *State) SetRaw(key []byte, raw []byte) {
	if len(raw) == 0 {
		raw = nil
	}
	s.sm.Put(string(key), raw)
}

// Delete deletes the key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), nil)
}

// Exists returns whether a value is present for the key.
func (s *State) Exists(key []byte) (bool, error) {
	v, err := s.GetRaw(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(key []byte, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRaw(key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(key []byte, dec func([]byte) error) error {
	raw, err := s.GetRaw(key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the changes made so far, last write wins per key.
func (s *State) Stage() *Stage {
	changes := make(map[string][]byte)
	var keys []string
	s.sm.Journal(func(k string, v []byte) bool {
		if _, ok := changes[k]; !ok {
			keys = append(keys, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{
		store:   s.store,
		cache:   s.cache,
		keys:    keys,
		changes: changes,
	}
}
