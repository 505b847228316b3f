// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auth

import "github.com/vechain/rewardpool/metrics"

var (
	metricLiveRequests = metrics.LazyLoadGauge("auth_live_requests")
	metricBusy         = metrics.LazyLoadCounter("auth_busy_count")
)
