// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"github.com/holiman/uint256"
)

// Schedule is the emission schedule of a pool together with its reward per token accumulator.
type Schedule struct {
	RewardDuration       uint64
	RewardDurationEnd    uint64
	LastUpdateTime       uint64
	RewardRate           uint64
	RewardPerTokenStored *uint256.Int
}

// Position is the checkpointed reward state of one staker.
type Position struct {
	BalanceStaked          uint64
	RewardPerTokenComplete *uint256.Int
	RewardPerTokenPending  uint64
}

func orZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return new(uint256.Int)
	}
	return x
}

// effectiveTime caps now at the end of the current epoch.
func (s *Schedule) effectiveTime(now uint64) uint64 {
	return min(now, s.RewardDurationEnd)
}

// RewardPerToken returns the accumulator advanced to now, without modifying the schedule.
func (s *Schedule) RewardPerToken(totalStaked, now uint64) (*uint256.Int, error) {
	stored := orZero(s.RewardPerTokenStored)
	if totalStaked == 0 {
		return stored.Clone(), nil
	}

	elapsed, err := sub(uint256.NewInt(s.effectiveTime(now)), uint256.NewInt(s.LastUpdateTime))
	if err != nil {
		return nil, err
	}
	x, err := mul(elapsed, uint256.NewInt(s.RewardRate))
	if err != nil {
		return nil, err
	}
	if x, err = mul(x, Precision); err != nil {
		return nil, err
	}
	if x, err = div(x, uint256.NewInt(totalStaked)); err != nil {
		return nil, err
	}
	return add(stored, x)
}

// Earned returns the pending reward of p against the given accumulator value.
func (p *Position) Earned(rewardPerToken *uint256.Int) (uint64, error) {
	delta, err := sub(rewardPerToken, orZero(p.RewardPerTokenComplete))
	if err != nil {
		return 0, err
	}
	x, err := mul(uint256.NewInt(p.BalanceStaked), delta)
	if err != nil {
		return 0, err
	}
	if x, err = div(x, Precision); err != nil {
		return 0, err
	}
	if x, err = add(x, uint256.NewInt(p.RewardPerTokenPending)); err != nil {
		return 0, err
	}
	return toUint64(x)
}

// Checkpoint advances the accumulator of s to now and, if p is not nil, moves the reward p earned
// since its last checkpoint into its pending amount.
// On error neither s nor p is modified.
func Checkpoint(s *Schedule, p *Position, totalStaked, now uint64) error {
	stored, err := s.RewardPerToken(totalStaked, now)
	if err != nil {
		return err
	}

	var pending uint64
	if p != nil {
		if pending, err = p.Earned(stored); err != nil {
			return err
		}
	}

	s.RewardPerTokenStored = stored
	s.LastUpdateTime = s.effectiveTime(now)
	if p != nil {
		p.RewardPerTokenPending = pending
		p.RewardPerTokenComplete = stored.Clone()
	}
	return nil
}

// Fund checkpoints s and refreshes its reward rate so that amount, plus whatever the current epoch
// has not emitted yet, is spread over a new epoch starting at now.
// Integer division truncates the rate, the remainder is never emitted.
func Fund(s *Schedule, amount, totalStaked, now uint64) error {
	next := *s
	if err := Checkpoint(&next, nil, totalStaked, now); err != nil {
		return err
	}

	duration := uint256.NewInt(s.RewardDuration)
	total := uint256.NewInt(amount)
	if now < next.RewardDurationEnd {
		remaining := uint256.NewInt(next.RewardDurationEnd - now)
		leftover, err := mul(remaining, uint256.NewInt(next.RewardRate))
		if err != nil {
			return err
		}
		if total, err = add(total, leftover); err != nil {
			return err
		}
	}
	rate, err := div(total, duration)
	if err != nil {
		return err
	}
	if next.RewardRate, err = toUint64(rate); err != nil {
		return err
	}

	end, err := add(uint256.NewInt(now), duration)
	if err != nil {
		return err
	}
	if next.RewardDurationEnd, err = toUint64(end); err != nil {
		return err
	}
	next.LastUpdateTime = now

	*s = next
	return nil
}
