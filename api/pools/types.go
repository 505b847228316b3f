// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/rewardpool/staking"
	"github.com/vechain/rewardpool/thor"
)

// Envelope carries the signed arguments of an operation.
type Envelope struct {
	Args      json.RawMessage `json:"args,omitempty"`
	Nonce     uint64          `json:"nonce"`
	Expiry    uint64          `json:"expiry"`
	Signature hexutil.Bytes   `json:"signature"`
}

type InitializeArgs struct {
	Nonce          uint8        `json:"nonce"`
	StakingAsset   thor.Address `json:"stakingAsset"`
	RewardAsset    thor.Address `json:"rewardAsset"`
	RewardDuration uint64       `json:"rewardDuration"`
	LockPeriod     uint64       `json:"lockPeriod"`
	NoTier         bool         `json:"noTier"`
}

type AmountArgs struct {
	Amount uint64 `json:"amount"`
}

type FunderArgs struct {
	Funder thor.Address `json:"funder"`
}

type CloseArgs struct {
	StakingRefundee thor.Address `json:"stakingRefundee"`
	RewardRefundee  thor.Address `json:"rewardRefundee"`
}

type Pool struct {
	ID                   thor.Address   `json:"id"`
	Authority            thor.Address   `json:"authority"`
	Nonce                uint8          `json:"nonce"`
	Paused               bool           `json:"paused"`
	StakingAsset         thor.Address   `json:"stakingAsset"`
	StakingVault         thor.Address   `json:"stakingVault"`
	RewardAsset          thor.Address   `json:"rewardAsset"`
	RewardVault          thor.Address   `json:"rewardVault"`
	LockPeriod           uint64         `json:"lockPeriod"`
	RewardDuration       uint64         `json:"rewardDuration"`
	RewardDurationEnd    uint64         `json:"rewardDurationEnd"`
	LastUpdateTime       uint64         `json:"lastUpdateTime"`
	RewardRate           uint64         `json:"rewardRate"`
	RewardPerTokenStored string         `json:"rewardPerTokenStored"`
	UserStakeCount       uint32         `json:"userStakeCount"`
	TotalStaked          uint64         `json:"totalStaked"`
	NoTier               bool           `json:"noTier"`
	Funders              []thor.Address `json:"funders"`
}

func convertPool(id thor.Address, p *staking.Pool) *Pool {
	s := &p.Schedule
	return &Pool{
		ID:                   id,
		Authority:            p.Authority,
		Nonce:                p.Nonce,
		Paused:               p.Paused,
		StakingAsset:         p.StakingAsset,
		StakingVault:         p.StakingVault,
		RewardAsset:          p.RewardAsset,
		RewardVault:          p.RewardVault,
		LockPeriod:           p.LockPeriod,
		RewardDuration:       s.RewardDuration,
		RewardDurationEnd:    s.RewardDurationEnd,
		LastUpdateTime:       s.LastUpdateTime,
		RewardRate:           s.RewardRate,
		RewardPerTokenStored: s.RewardPerTokenStored.Dec(),
		UserStakeCount:       p.UserStakeCount,
		TotalStaked:          p.TotalStaked,
		NoTier:               p.NoTier,
		Funders:              p.Funders.List(),
	}
}

type User struct {
	Pool                   thor.Address `json:"pool"`
	Owner                  thor.Address `json:"owner"`
	BalanceStaked          uint64       `json:"balanceStaked"`
	RewardPerTokenComplete string       `json:"rewardPerTokenComplete"`
	RewardPerTokenPending  uint64       `json:"rewardPerTokenPending"`
	Earned                 uint64       `json:"earned"`
	MaturityTime           uint64       `json:"maturityTime"`
	Matured                bool         `json:"matured"`
	Tier                   uint8        `json:"tier"`
}

func convertUser(u *staking.User, earned, now uint64) *User {
	return &User{
		Pool:                   u.Pool,
		Owner:                  u.Owner,
		BalanceStaked:          u.Position.BalanceStaked,
		RewardPerTokenComplete: u.Position.RewardPerTokenComplete.Dec(),
		RewardPerTokenPending:  u.Position.RewardPerTokenPending,
		Earned:                 earned,
		MaturityTime:           u.MaturityTime,
		Matured:                u.Matured(now),
		Tier:                   u.Tier,
	}
}
