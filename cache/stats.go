// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts cache hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	reported  atomic.Int32 // hit rate in permille at the last report
}

func (s *Stats) recordHit()  { s.hit.Add(1) }
func (s *Stats) recordMiss() { s.miss.Add(1) }

// Report returns the counters, and whether the hit rate moved
// since the previous report.
func (s *Stats) Report() (hit, miss int64, moved bool) {
	hit, miss = s.hit.Load(), s.miss.Load()

	var permille int32
	if total := hit + miss; total > 0 {
		permille = int32(hit * 1000 / total)
	}
	return hit, miss, s.reported.Swap(permille) != permille
}
