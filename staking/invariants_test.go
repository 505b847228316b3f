// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/thor"
)

type randomOp struct {
	Kind    uint8
	Actor   uint8
	Amount  uint16
	Advance uint16
}

// TestRandomOperations drives random operation sequences and checks the
// accounting identities after every step.
func TestRandomOperations(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		env := newTestEnv(t, 1000).withPool(t, 50, false)
		require.NoError(t, env.AuthorizeFunder(authority, env.pool, funder))

		actors := []thor.Address{alice, bob, carol}
		funders := []thor.Address{authority, funder, alice}

		var (
			f        = fuzz.NewWithSeed(seed).NilChance(0)
			funded   uint64
			claimed  uint64
			lastRate = new(uint256.Int)
		)
		for step := 0; step < 300; step++ {
			var op randomOp
			f.Fuzz(&op)

			actor := actors[int(op.Actor)%len(actors)]
			amount := uint64(op.Amount)
			before := env.mustPool(t)

			var err error
			switch op.Kind % 9 {
			case 0:
				err = env.CreateUser(actor, env.pool)
			case 1:
				err = env.Stake(actor, env.pool, amount)
			case 2:
				err = env.Unstake(actor, env.pool, amount)
			case 3:
				var paid uint64
				paid, err = env.Claim(actor, env.pool)
				claimed += paid
			case 4:
				amount *= 100
				err = env.Fund(funders[int(op.Actor)%len(funders)], env.pool, amount)
				if err == nil {
					funded += amount
				}
			case 5:
				err = env.Pause(authority, env.pool)
			case 6:
				err = env.Unpause(authority, env.pool)
			case 7:
				err = env.CloseUser(actor, env.pool)
			case 8:
				env.clock.Advance(uint64(op.Advance) * 8)
			}

			after := env.mustPool(t)
			if err != nil {
				assert.Equal(t, before, after, "seed %d step %d: rejected op %d mutated the pool", seed, step, op.Kind%9)
			}

			var (
				sum   uint64
				users uint32
			)
			for _, a := range actors {
				u, err := env.User(env.pool, a)
				if err != nil {
					require.ErrorIs(t, err, ErrUserNotFound)
					continue
				}
				users++
				sum += u.Position.BalanceStaked
				assert.True(t, u.Position.RewardPerTokenComplete.Cmp(after.Schedule.RewardPerTokenStored) <= 0)
			}
			require.Equal(t, after.TotalStaked, sum, "seed %d step %d", seed, step)
			require.Equal(t, after.UserStakeCount, users, "seed %d step %d", seed, step)
			require.Equal(t, after.TotalStaked, env.balance(t, stakeToken, after.StakingVault))
			require.Equal(t, funded-claimed, env.balance(t, rewardToken, after.RewardVault))

			require.True(t, after.Schedule.RewardPerTokenStored.Cmp(lastRate) >= 0, "seed %d step %d: accumulator decreased", seed, step)
			lastRate.Set(after.Schedule.RewardPerTokenStored)
			if after.Schedule.RewardDurationEnd > 0 {
				assert.LessOrEqual(t, after.Schedule.LastUpdateTime, after.Schedule.RewardDurationEnd)
			}
		}
	}
}
