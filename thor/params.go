// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of reward pools.
const (
	MinRewardDuration uint64 = 86400 // one day, in seconds
	MaxFunders               = 5     // funders a pool may register besides its authority

	StakingVaultLabel = "staking"
	RewardVaultLabel  = "reward"
)
