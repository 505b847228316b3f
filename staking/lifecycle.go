// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/staking/internal/vault"
	"github.com/vechain/rewardpool/thor"
)

// InitializeArgs are the parameters of a new pool.
type InitializeArgs struct {
	Nonce          uint8
	StakingAsset   thor.Address
	RewardAsset    thor.Address
	RewardDuration uint64
	LockPeriod     uint64
	NoTier         bool
}

// CloseArgs names where the residual vault balances of a closed pool go.
// A zero address means the pool authority.
type CloseArgs struct {
	StakingRefundee thor.Address
	RewardRefundee  thor.Address
}

// custodyOf issues the custody capability over the vaults of a pool.
func custodyOf(id thor.Address, pool *Pool) vault.Custody {
	return vault.IssueCustody(id, pool.Nonce)
}

func requireAuthority(pool *Pool, caller thor.Address) error {
	if caller != pool.Authority {
		return errors.WithMessagef(ErrUnauthorized, "%v is not the pool authority", caller)
	}
	return nil
}

// InitializePool creates a pool administered by authority, and opens its two vaults
// owned by the pool custodial identity. It returns the pool identifier.
func (e *Engine) InitializePool(authority thor.Address, args *InitializeArgs) (id thor.Address, err error) {
	id = thor.CreatePoolAddress(authority, args.Nonce)
	err = e.execute("initialize_pool", func(t *tx) error {
		t.pool = id
		if args.RewardDuration < thor.MinRewardDuration {
			return errors.WithMessagef(ErrDurationTooShort, "minimum %d", thor.MinRewardDuration)
		}
		if _, exist, err := t.pools.Get(id); err != nil {
			return err
		} else if exist {
			return errors.WithMessagef(ErrPoolExists, "pool %v", id)
		}

		pool := newPool(authority, args.Nonce, args)
		custody := custodyOf(id, pool)
		if err := t.vault.Open(pool.StakingAsset, pool.StakingVault, custody); err != nil {
			return errors.Wrap(ErrStorageConstraintViolated, err.Error())
		}
		if err := t.vault.Open(pool.RewardAsset, pool.RewardVault, custody); err != nil {
			return errors.Wrap(ErrStorageConstraintViolated, err.Error())
		}
		if err := t.setPool(id, pool); err != nil {
			return err
		}

		logger.Info("pool initialized", "pool", id, "authority", authority,
			"duration", args.RewardDuration, "lock", args.LockPeriod, "noTier", args.NoTier)
		return nil
	})
	if err != nil {
		return thor.Address{}, err
	}
	return id, nil
}

// CreateUser creates the user record of owner in the pool.
func (e *Engine) CreateUser(owner, poolID thor.Address) error {
	return e.execute("create_user", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if _, exist, err := t.users.Get(userKey{poolID, owner}); err != nil {
			return err
		} else if exist {
			return errors.WithMessagef(ErrUserExists, "owner %v", owner)
		}

		if pool.UserStakeCount == ^uint32(0) {
			return ErrArithmeticOverflow
		}
		pool.UserStakeCount++

		if err := t.setUser(newUser(poolID, owner)); err != nil {
			return err
		}
		return t.setPool(poolID, pool)
	})
}

// CloseUser destroys the user record of owner. It must hold no stake and no pending reward.
func (e *Engine) CloseUser(owner, poolID thor.Address) error {
	return e.execute("close_user", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		user, err := t.getUser(poolID, owner)
		if err != nil {
			return err
		}
		if !user.IsEmpty() {
			return errors.WithMessagef(ErrStorageConstraintViolated,
				"user holds stake %d and pending reward %d", user.Position.BalanceStaked, user.Position.RewardPerTokenPending)
		}
		if pool.UserStakeCount == 0 {
			return ErrArithmeticUnderflow
		}
		pool.UserStakeCount--

		t.users.Delete(userKey{poolID, owner})
		return t.setPool(poolID, pool)
	})
}

// Pause stops staking and funding. Only the authority may pause, once the epoch has elapsed.
func (e *Engine) Pause(caller, poolID thor.Address) error {
	return e.execute("pause", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if pool.Paused {
			return ErrPoolPaused
		}
		if pool.Schedule.RewardDurationEnd >= t.now {
			return errors.WithMessagef(ErrEpochNotElapsed, "epoch ends at %d", pool.Schedule.RewardDurationEnd)
		}

		pool.Paused = true
		if err := t.setPool(poolID, pool); err != nil {
			return err
		}
		logger.Info("pool paused", "pool", poolID)
		return nil
	})
}

// Unpause resumes a paused pool.
func (e *Engine) Unpause(caller, poolID thor.Address) error {
	return e.execute("unpause", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if !pool.Paused {
			return ErrPoolNotPaused
		}

		pool.Paused = false
		if err := t.setPool(poolID, pool); err != nil {
			return err
		}
		logger.Info("pool unpaused", "pool", poolID)
		return nil
	})
}

// AuthorizeFunder allows candidate to fund the pool.
func (e *Engine) AuthorizeFunder(caller, poolID, candidate thor.Address) error {
	return e.execute("authorize_funder", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if err := pool.Funders.Add(pool.Authority, candidate); err != nil {
			return err
		}
		return t.setPool(poolID, pool)
	})
}

// DeauthorizeFunder revokes the funding right of candidate.
func (e *Engine) DeauthorizeFunder(caller, poolID, candidate thor.Address) error {
	return e.execute("deauthorize_funder", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if err := pool.Funders.Remove(pool.Authority, candidate); err != nil {
			return err
		}
		return t.setPool(poolID, pool)
	})
}

// ClosePool sweeps both vaults to the refundees, then destroys the vaults and the pool.
// The pool must be paused, its epoch elapsed, and it must have no users and no stake.
func (e *Engine) ClosePool(caller, poolID thor.Address, args *CloseArgs) error {
	return e.execute("close_pool", func(t *tx) error {
		pool, err := t.getPool(poolID)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if !pool.Paused {
			return ErrPoolNotPaused
		}
		if !pool.EpochElapsed(t.now) {
			return errors.WithMessagef(ErrEpochNotElapsed, "epoch ends at %d", pool.Schedule.RewardDurationEnd)
		}
		if pool.UserStakeCount != 0 || pool.TotalStaked != 0 {
			return errors.WithMessagef(ErrStorageConstraintViolated,
				"pool has %d users and %d staked", pool.UserStakeCount, pool.TotalStaked)
		}

		stakingRefundee, rewardRefundee := pool.Authority, pool.Authority
		if args != nil {
			if !args.StakingRefundee.IsZero() {
				stakingRefundee = args.StakingRefundee
			}
			if !args.RewardRefundee.IsZero() {
				rewardRefundee = args.RewardRefundee
			}
		}

		custody := custodyOf(poolID, pool)
		for _, v := range []struct {
			asset, addr, refundee thor.Address
		}{
			{pool.StakingAsset, pool.StakingVault, stakingRefundee},
			{pool.RewardAsset, pool.RewardVault, rewardRefundee},
		} {
			residual, err := t.vault.Balance(v.asset, v.addr)
			if err != nil {
				return err
			}
			if residual > 0 {
				if err := t.vault.Transfer(v.asset, v.addr, v.refundee, residual, custody); err != nil {
					return err
				}
			}
			if err := t.vault.Close(v.asset, v.addr, custody); err != nil {
				return err
			}
		}
		t.pools.Delete(poolID)

		logger.Info("pool closed", "pool", poolID)
		return nil
	})
}
