// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/rewardpool/metrics"
)

var (
	metricOpCount    = metrics.LazyLoadCounterVec("staking_op_count", []string{"op", "status"})
	metricOpDuration = metrics.LazyLoadHistogramVec("staking_op_duration_ms", []string{"op"}, metrics.BucketOps)
	metricStaked     = metrics.LazyLoadGaugeVec("staking_total_staked", []string{"pool"})
	metricFunded     = metrics.LazyLoadCounterVec("staking_funded_total", []string{"pool"})
	metricClaimed    = metrics.LazyLoadCounterVec("staking_claimed_total", []string{"pool"})
	metricCommitKeys = metrics.LazyLoadHistogram("staking_commit_keys", []int64{1, 2, 4, 6, 8, 12, 16})
)
