// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/staking/funders"
	"github.com/vechain/rewardpool/staking/reward"
	"github.com/vechain/rewardpool/thor"
)

// Pool is the record of one staking campaign.
type Pool struct {
	Authority    thor.Address
	Nonce        uint8
	Paused       bool
	StakingAsset thor.Address
	StakingVault thor.Address
	RewardAsset  thor.Address
	RewardVault  thor.Address
	LockPeriod   uint64
	Schedule     reward.Schedule

	UserStakeCount uint32
	TotalStaked    uint64
	NoTier         bool
	Funders        funders.Set
}

// ID returns the identifier of the pool.
func (p *Pool) ID() thor.Address {
	return thor.CreatePoolAddress(p.Authority, p.Nonce)
}

// CanFund returns whether addr may deposit rewards. The authority always can.
func (p *Pool) CanFund(addr thor.Address) bool {
	return addr == p.Authority || p.Funders.Contains(addr)
}

// EpochElapsed returns whether a funded epoch exists and has ended before now.
func (p *Pool) EpochElapsed(now uint64) bool {
	end := p.Schedule.RewardDurationEnd
	return end > 0 && end < now
}

// User is the record of one staker in one pool.
type User struct {
	Pool         thor.Address
	Owner        thor.Address
	Position     reward.Position
	MaturityTime uint64
	Tier         uint8
}

// IsEmpty returns whether the record holds no stake and no unclaimed reward.
func (u *User) IsEmpty() bool {
	return u.Position.BalanceStaked == 0 && u.Position.RewardPerTokenPending == 0
}

// Matured returns whether the stake of the user may be reduced at now.
func (u *User) Matured(now uint64) bool {
	return now >= u.MaturityTime
}

type userKey struct {
	pool  thor.Address
	owner thor.Address
}

func (k userKey) Bytes() []byte {
	return append(k.pool.Bytes(), k.owner.Bytes()...)
}

func newPool(authority thor.Address, nonce uint8, args *InitializeArgs) *Pool {
	id := thor.CreatePoolAddress(authority, nonce)
	return &Pool{
		Authority:    authority,
		Nonce:        nonce,
		StakingAsset: args.StakingAsset,
		StakingVault: thor.VaultAddress(id, thor.StakingVaultLabel),
		RewardAsset:  args.RewardAsset,
		RewardVault:  thor.VaultAddress(id, thor.RewardVaultLabel),
		LockPeriod:   args.LockPeriod,
		Schedule: reward.Schedule{
			RewardDuration:       args.RewardDuration,
			RewardPerTokenStored: new(uint256.Int),
		},
		NoTier: args.NoTier,
	}
}

func newUser(pool, owner thor.Address) *User {
	return &User{
		Pool:  pool,
		Owner: owner,
		Position: reward.Position{
			RewardPerTokenComplete: new(uint256.Int),
		},
	}
}

func addUint64(x, y uint64) (uint64, error) {
	sum, carry := bits.Add64(x, y, 0)
	if carry != 0 {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func subUint64(x, y uint64) (uint64, error) {
	diff, borrow := bits.Sub64(x, y, 0)
	if borrow != 0 {
		return 0, ErrArithmeticUnderflow
	}
	return diff, nil
}
