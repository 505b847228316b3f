// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/staking/internal/vault"
	"github.com/vechain/rewardpool/staking/reward"
	"github.com/vechain/rewardpool/thor"
)

// Stake deposits amount of the staking asset of owner into the pool.
// The stake is locked for the lock period of the pool from now on.
func (e *Engine) Stake(owner, poolID thor.Address, amount uint64) error {
	return e.execute("stake", func(t *tx) error {
		if amount == 0 {
			return ErrZeroAmount
		}
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if pool.Paused {
			return ErrPoolPaused
		}
		user, err := t.getUser(poolID, owner)
		if err != nil {
			return err
		}

		if err := reward.Checkpoint(&pool.Schedule, &user.Position, pool.TotalStaked, t.now); err != nil {
			return err
		}
		if user.Position.BalanceStaked, err = addUint64(user.Position.BalanceStaked, amount); err != nil {
			return err
		}
		if user.MaturityTime, err = addUint64(t.now, pool.LockPeriod); err != nil {
			return err
		}
		if !pool.NoTier {
			user.Tier = t.thresholds.Classify(user.Position.BalanceStaked)
		}
		if pool.TotalStaked, err = addUint64(pool.TotalStaked, amount); err != nil {
			return err
		}

		if err := t.vault.Transfer(pool.StakingAsset, owner, pool.StakingVault, amount, vault.SignedBy(owner)); err != nil {
			return err
		}
		if err := t.setUser(user); err != nil {
			return err
		}
		if err := t.setPool(poolID, pool); err != nil {
			return err
		}

		t.onCommit(func() {
			metricStaked().SetWithLabel(int64(pool.TotalStaked), map[string]string{"pool": poolID.String()})
		})
		logger.Debug("staked", "pool", poolID, "owner", owner, "amount", amount, "maturity", user.MaturityTime)
		return nil
	})
}

// Unstake withdraws amount from the stake of owner back to owner.
// It is allowed while the pool is paused.
func (e *Engine) Unstake(owner, poolID thor.Address, amount uint64) error {
	return e.execute("unstake", func(t *tx) error {
		if amount == 0 {
			return ErrZeroAmount
		}
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		user, err := t.getUser(poolID, owner)
		if err != nil {
			return err
		}
		if !user.Matured(t.now) {
			return errors.WithMessagef(ErrMaturityNotReached, "matures at %d", user.MaturityTime)
		}
		if amount > user.Position.BalanceStaked {
			return errors.WithMessagef(ErrInsufficientBalance, "staked %d", user.Position.BalanceStaked)
		}

		if err := reward.Checkpoint(&pool.Schedule, &user.Position, pool.TotalStaked, t.now); err != nil {
			return err
		}
		if user.Position.BalanceStaked, err = subUint64(user.Position.BalanceStaked, amount); err != nil {
			return err
		}
		if !pool.NoTier {
			user.Tier = t.thresholds.Classify(user.Position.BalanceStaked)
		}
		if pool.TotalStaked, err = subUint64(pool.TotalStaked, amount); err != nil {
			return err
		}

		if err := t.vault.Transfer(pool.StakingAsset, pool.StakingVault, owner, amount, custodyOf(poolID, pool)); err != nil {
			return err
		}
		if err := t.setUser(user); err != nil {
			return err
		}
		if err := t.setPool(poolID, pool); err != nil {
			return err
		}

		t.onCommit(func() {
			metricStaked().SetWithLabel(int64(pool.TotalStaked), map[string]string{"pool": poolID.String()})
		})
		logger.Debug("unstaked", "pool", poolID, "owner", owner, "amount", amount)
		return nil
	})
}

// Claim pays the pending reward of owner out of the reward vault and returns the amount paid.
// The payout is capped at the vault balance. Pending reward is cleared even if not fully paid.
// It is allowed while the pool is paused.
func (e *Engine) Claim(owner, poolID thor.Address) (paid uint64, err error) {
	err = e.execute("claim", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		user, err := t.getUser(poolID, owner)
		if err != nil {
			return err
		}
		if !user.Matured(t.now) {
			return errors.WithMessagef(ErrMaturityNotReached, "matures at %d", user.MaturityTime)
		}

		if err := reward.Checkpoint(&pool.Schedule, &user.Position, pool.TotalStaked, t.now); err != nil {
			return err
		}

		var payout uint64
		if pending := user.Position.RewardPerTokenPending; pending > 0 {
			available, err := t.vault.Balance(pool.RewardAsset, pool.RewardVault)
			if err != nil {
				return err
			}
			payout = min(pending, available)
			user.Position.RewardPerTokenPending = 0

			if payout < pending {
				logger.Warn("reward vault under-funded, claim capped",
					"pool", poolID, "owner", owner, "pending", pending, "paid", payout)
			}
			if payout > 0 {
				if err := t.vault.Transfer(pool.RewardAsset, pool.RewardVault, owner, payout, custodyOf(poolID, pool)); err != nil {
					return err
				}
			}
		}
		if err := t.setUser(user); err != nil {
			return err
		}
		if err := t.setPool(poolID, pool); err != nil {
			return err
		}

		paid = payout
		return nil
	})
	if err != nil {
		return 0, err
	}
	if paid > 0 {
		metricClaimed().AddWithLabel(int64(paid), map[string]string{"pool": poolID.String()})
	}
	return paid, nil
}

// Fund deposits amount of the reward asset from funder into the reward vault and restarts the
// emission epoch at now. Rewards not yet emitted are carried into the new epoch.
func (e *Engine) Fund(funder, poolID thor.Address, amount uint64) error {
	return e.execute("fund", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if !pool.CanFund(funder) {
			return errors.WithMessagef(ErrUnauthorized, "%v is not a funder", funder)
		}
		if pool.Paused {
			return ErrPoolPaused
		}

		if err := reward.Fund(&pool.Schedule, amount, pool.TotalStaked, t.now); err != nil {
			return err
		}
		if amount > 0 {
			if err := t.vault.Transfer(pool.RewardAsset, funder, pool.RewardVault, amount, vault.SignedBy(funder)); err != nil {
				return err
			}
		}
		if err := t.setPool(poolID, pool); err != nil {
			return err
		}

		if amount > 0 {
			t.onCommit(func() {
				metricFunded().AddWithLabel(int64(amount), map[string]string{"pool": poolID.String()})
			})
		}
		logger.Debug("funded", "pool", poolID, "funder", funder, "amount", amount,
			"rate", pool.Schedule.RewardRate, "end", pool.Schedule.RewardDurationEnd)
		return nil
	})
}
