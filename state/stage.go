// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/kv"
)

// Stage holds the changes of a state, ready to be committed.
type Stage struct {
	store   kv.Store
	cache   *cache.LRU
	keys    []string
	changes map[string][]byte
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes into the store as a single batch.
// The cache is refreshed only after the batch is written.
func (s *Stage) Commit() error {
	if len(s.keys) == 0 {
		return nil
	}

	batch := s.store.NewBatch()
	for _, k := range s.keys {
		v := s.changes[k]
		if len(v) == 0 {
			if err := batch.Delete([]byte(k)); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := batch.Put([]byte(k), v); err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	metricStateAccess().AddWithLabel(int64(len(s.keys)), map[string]string{"type": "commit"})

	if s.cache != nil {
		for _, k := range s.keys {
			s.cache.Add(k, s.changes[k])
		}
	}
	return nil
}
