// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tier

import (
	"sort"

	"github.com/pkg/errors"
)

// DefaultThresholds are the stake amounts at which a user moves up a tier.
var DefaultThresholds = Thresholds{100, 1000, 10000}

// Thresholds is an ascending list of tier boundaries.
type Thresholds []uint64

// Validate checks the thresholds are strictly ascending and fit in a tier index.
func (t Thresholds) Validate() error {
	if len(t) > 255 {
		return errors.New("too many tier thresholds")
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return errors.Errorf("tier thresholds not ascending at index %d", i)
		}
	}
	return nil
}

// Classify returns the index of the first threshold strictly greater than amount,
// or len(t) if amount reaches every threshold.
func (t Thresholds) Classify(amount uint64) uint8 {
	return uint8(sort.Search(len(t), func(i int) bool {
		return t[i] > amount
	}))
}
