// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/clock"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/transferdb"
)

const day = thor.MinRewardDuration

var (
	authority   = thor.BytesToAddress([]byte("authority"))
	alice       = thor.BytesToAddress([]byte("alice"))
	bob         = thor.BytesToAddress([]byte("bob"))
	carol       = thor.BytesToAddress([]byte("carol"))
	funder      = thor.BytesToAddress([]byte("funder"))
	stakeToken  = thor.BytesToAddress([]byte("stake-token"))
	rewardToken = thor.BytesToAddress([]byte("reward-token"))
)

type testEnv struct {
	*Engine
	clock     *clock.Mock
	transfers *transferdb.TransferDB
	pool      thor.Address
}

func newTestEnv(t *testing.T, now uint64) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tdb, err := transferdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { tdb.Close() })

	clk := clock.NewMock(now)
	e, err := New(db, clk, Options{CacheSize: 64, Transfers: tdb})
	require.NoError(t, err)

	for _, addr := range []thor.Address{alice, bob, carol} {
		require.NoError(t, e.Mint(stakeToken, addr, 1_000_000))
	}
	for _, addr := range []thor.Address{authority, funder} {
		require.NoError(t, e.Mint(rewardToken, addr, 1_000_000_000))
	}
	return &testEnv{Engine: e, clock: clk, transfers: tdb}
}

// withPool initializes a pool of one day epochs and the given lock period.
func (env *testEnv) withPool(t *testing.T, lock uint64, noTier bool) *testEnv {
	id, err := env.InitializePool(authority, &InitializeArgs{
		StakingAsset:   stakeToken,
		RewardAsset:    rewardToken,
		RewardDuration: day,
		LockPeriod:     lock,
		NoTier:         noTier,
	})
	require.NoError(t, err)
	env.pool = id
	return env
}

func (env *testEnv) mustPool(t *testing.T) *Pool {
	p, err := env.Pool(env.pool)
	require.NoError(t, err)
	return p
}

func (env *testEnv) mustUser(t *testing.T, owner thor.Address) *User {
	u, err := env.User(env.pool, owner)
	require.NoError(t, err)
	return u
}

func (env *testEnv) balance(t *testing.T, asset, addr thor.Address) uint64 {
	b, err := env.Balance(asset, addr)
	require.NoError(t, err)
	return b
}

func TestNewRejectsBadThresholds(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, err = New(db, clock.NewMock(0), Options{Thresholds: []uint64{10, 5}})
	assert.Error(t, err)
}

func TestInitializePool(t *testing.T) {
	env := newTestEnv(t, 1000)

	_, err := env.InitializePool(authority, &InitializeArgs{RewardDuration: day - 1})
	assert.ErrorIs(t, err, ErrDurationTooShort)

	env.withPool(t, 100, false)
	assert.Equal(t, thor.CreatePoolAddress(authority, 0), env.pool)

	p := env.mustPool(t)
	assert.Equal(t, authority, p.Authority)
	assert.False(t, p.Paused)
	assert.Equal(t, day, p.Schedule.RewardDuration)
	assert.Zero(t, p.Schedule.RewardDurationEnd)
	assert.True(t, p.Schedule.RewardPerTokenStored.IsZero())
	assert.Zero(t, p.Funders.Len())

	// both vaults are owned by the custodial identity of the pool
	signer := thor.PoolSigner(env.pool, 0)
	var vaultOwners []thor.Address
	_ = env.view(func(t *tx) error {
		for _, v := range [][2]thor.Address{{stakeToken, p.StakingVault}, {rewardToken, p.RewardVault}} {
			acc, exist, err := t.vault.Account(v[0], v[1])
			if err != nil || !exist {
				return err
			}
			vaultOwners = append(vaultOwners, acc.Owner)
		}
		return nil
	})
	assert.Equal(t, []thor.Address{signer, signer}, vaultOwners)

	_, err = env.InitializePool(authority, &InitializeArgs{RewardDuration: day})
	assert.ErrorIs(t, err, ErrPoolExists)

	// another nonce is another pool
	other, err := env.InitializePool(authority, &InitializeArgs{Nonce: 1, RewardDuration: day})
	assert.NoError(t, err)
	assert.NotEqual(t, env.pool, other)
}

func TestUnknownPoolAndUser(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	unknown := thor.BytesToAddress([]byte("unknown"))

	assert.ErrorIs(t, env.CreateUser(alice, unknown), ErrPoolNotFound)
	assert.ErrorIs(t, env.Stake(alice, unknown, 1), ErrPoolNotFound)
	assert.ErrorIs(t, env.Stake(alice, env.pool, 1), ErrUserNotFound)
	_, err := env.Claim(alice, env.pool)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.CreateUser(alice, env.pool))
	assert.ErrorIs(t, env.CreateUser(alice, env.pool), ErrUserExists)
	assert.Equal(t, uint32(1), env.mustPool(t).UserStakeCount)
}

func TestStakeUnstakeRoundTrip(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 10, false)
	require.NoError(t, env.CreateUser(alice, env.pool))

	before := env.mustPool(t).TotalStaked
	require.NoError(t, env.Stake(alice, env.pool, 500))

	p := env.mustPool(t)
	assert.Equal(t, before+500, p.TotalStaked)
	assert.Equal(t, uint64(500), env.mustUser(t, alice).Position.BalanceStaked)
	assert.Equal(t, uint64(500), env.balance(t, stakeToken, p.StakingVault))
	assert.Equal(t, uint64(1_000_000-500), env.balance(t, stakeToken, alice))

	env.clock.Advance(10)
	require.NoError(t, env.Unstake(alice, env.pool, 500))

	assert.Equal(t, before, env.mustPool(t).TotalStaked)
	assert.Zero(t, env.mustUser(t, alice).Position.BalanceStaked)
	assert.Zero(t, env.balance(t, stakeToken, p.StakingVault))
	assert.Equal(t, uint64(1_000_000), env.balance(t, stakeToken, alice))
}

func TestMaturityBoundary(t *testing.T) {
	env := newTestEnv(t, 0).withPool(t, 100, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 10))
	assert.Equal(t, uint64(100), env.mustUser(t, alice).MaturityTime)

	env.clock.Set(99)
	assert.ErrorIs(t, env.Unstake(alice, env.pool, 10), ErrMaturityNotReached)
	_, err := env.Claim(alice, env.pool)
	assert.ErrorIs(t, err, ErrMaturityNotReached)

	env.clock.Set(100)
	assert.NoError(t, env.Unstake(alice, env.pool, 10))
}

func TestStakeResetsMaturity(t *testing.T) {
	env := newTestEnv(t, 0).withPool(t, 100, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 10))

	env.clock.Set(150)
	require.NoError(t, env.Stake(alice, env.pool, 10))
	assert.ErrorIs(t, env.Unstake(alice, env.pool, 10), ErrMaturityNotReached)

	env.clock.Set(250)
	assert.NoError(t, env.Unstake(alice, env.pool, 20))
}

func TestStakeRejected(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))

	assert.ErrorIs(t, env.Stake(alice, env.pool, 0), ErrZeroAmount)

	// the wallet cannot cover the stake, nothing is applied
	before := env.mustPool(t)
	assert.ErrorIs(t, env.Stake(alice, env.pool, 1_000_001), ErrTransferFailed)
	assert.Equal(t, before, env.mustPool(t))
	assert.Zero(t, env.mustUser(t, alice).Position.BalanceStaked)
	assert.Equal(t, uint64(1_000_000), env.balance(t, stakeToken, alice))
}

func TestUnstakeRejected(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 10))

	assert.ErrorIs(t, env.Unstake(alice, env.pool, 0), ErrZeroAmount)
	assert.ErrorIs(t, env.Unstake(alice, env.pool, 11), ErrInsufficientBalance)
	assert.Equal(t, uint64(10), env.mustPool(t).TotalStaked)
}

func TestTiers(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))

	steps := []struct {
		stake   uint64
		unstake uint64
		tier    uint8
	}{
		{stake: 99, tier: 0},
		{stake: 1, tier: 1},
		{stake: 9899, tier: 2},
		{stake: 1, tier: 3},
		{unstake: 1, tier: 2},
		{unstake: 9900, tier: 0},
	}
	for _, s := range steps {
		if s.stake > 0 {
			require.NoError(t, env.Stake(alice, env.pool, s.stake))
		} else {
			require.NoError(t, env.Unstake(alice, env.pool, s.unstake))
		}
		assert.Equal(t, s.tier, env.mustUser(t, alice).Tier)
	}
}

func TestNoTier(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, true)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 20000))
	assert.Zero(t, env.mustUser(t, alice).Tier)
}

func TestFundRate(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)

	require.NoError(t, env.Fund(authority, env.pool, 10*day+5))
	p := env.mustPool(t)
	assert.Equal(t, uint64(10), p.Schedule.RewardRate)
	assert.Equal(t, 1000+day, p.Schedule.RewardDurationEnd)
	assert.Equal(t, uint64(1000), p.Schedule.LastUpdateTime)
	// the truncated remainder stays in the vault
	assert.Equal(t, 10*day+5, env.balance(t, rewardToken, p.RewardVault))

	// half way, the rest of the epoch is carried over
	env.clock.Advance(day / 2)
	require.NoError(t, env.Fund(authority, env.pool, 10*day))
	p = env.mustPool(t)
	assert.Equal(t, uint64(15), p.Schedule.RewardRate)
	assert.Equal(t, 1000+day/2+day, p.Schedule.RewardDurationEnd)
}

func TestFundZeroMovesNothing(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)

	require.NoError(t, env.Fund(authority, env.pool, 0))
	p := env.mustPool(t)
	assert.Zero(t, p.Schedule.RewardRate)
	assert.Equal(t, 1000+day, p.Schedule.RewardDurationEnd)
	assert.Zero(t, env.balance(t, rewardToken, p.RewardVault))
}

func TestFundAuthorization(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)

	assert.ErrorIs(t, env.Fund(funder, env.pool, 100), ErrUnauthorized)

	require.NoError(t, env.AuthorizeFunder(authority, env.pool, funder))
	require.NoError(t, env.Fund(funder, env.pool, 100))
	assert.Equal(t, uint64(1_000_000_000-100), env.balance(t, rewardToken, funder))

	require.NoError(t, env.DeauthorizeFunder(authority, env.pool, funder))
	assert.ErrorIs(t, env.Fund(funder, env.pool, 100), ErrUnauthorized)

	// a funder without the reward asset
	require.NoError(t, env.AuthorizeFunder(authority, env.pool, carol))
	assert.ErrorIs(t, env.Fund(carol, env.pool, 100), ErrTransferFailed)
}

func TestFunderRegistry(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)

	assert.ErrorIs(t, env.AuthorizeFunder(alice, env.pool, funder), ErrUnauthorized)
	assert.ErrorIs(t, env.DeauthorizeFunder(alice, env.pool, funder), ErrUnauthorized)

	for i := range thor.MaxFunders {
		require.NoError(t, env.AuthorizeFunder(authority, env.pool, thor.BytesToAddress([]byte{'f', byte(i)})))
	}
	assert.ErrorIs(t, env.AuthorizeFunder(authority, env.pool, funder), ErrFunderCapacityExceeded)
	assert.ErrorIs(t, env.AuthorizeFunder(authority, env.pool, thor.BytesToAddress([]byte{'f', 0})), ErrFunderAlreadyAuthorized)

	assert.ErrorIs(t, env.AuthorizeFunder(authority, env.pool, authority), ErrCannotModifyPoolAuthorityAsFunder)
	assert.ErrorIs(t, env.DeauthorizeFunder(authority, env.pool, authority), ErrCannotModifyPoolAuthorityAsFunder)
	assert.ErrorIs(t, env.DeauthorizeFunder(authority, env.pool, funder), ErrFunderNotFound)

	require.NoError(t, env.DeauthorizeFunder(authority, env.pool, thor.BytesToAddress([]byte{'f', 3})))
	require.NoError(t, env.AuthorizeFunder(authority, env.pool, funder))
	assert.Equal(t, funder, env.mustPool(t).Funders[3])
}

func TestClaim(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.CreateUser(bob, env.pool))

	require.NoError(t, env.Fund(authority, env.pool, 10*day))
	require.NoError(t, env.Stake(alice, env.pool, 100))

	env.clock.Advance(1000)
	earned, err := env.Earned(env.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), earned)

	require.NoError(t, env.Stake(bob, env.pool, 300))
	env.clock.Advance(1000)

	paid, err := env.Claim(alice, env.pool)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000+2_500), paid)
	assert.Equal(t, paid, env.balance(t, rewardToken, alice))
	assert.Zero(t, env.mustUser(t, alice).Position.RewardPerTokenPending)

	paid, err = env.Claim(bob, env.pool)
	require.NoError(t, err)
	assert.Equal(t, uint64(7_500), paid)

	// nothing more accrued at the same instant
	paid, err = env.Claim(alice, env.pool)
	require.NoError(t, err)
	assert.Zero(t, paid)

	p := env.mustPool(t)
	assert.Equal(t, 10*day-20_000, env.balance(t, rewardToken, p.RewardVault))
}

func TestClaimStopsAtEpochEnd(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 7))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))

	env.clock.Advance(3 * day)
	paid, err := env.Claim(alice, env.pool)
	require.NoError(t, err)
	// 7 does not divide the emission, the remainder stays in the vault
	assert.LessOrEqual(t, paid, 10*day)
	assert.GreaterOrEqual(t, paid, 10*day-7)
	assert.Equal(t, 1000+day, env.mustPool(t).Schedule.LastUpdateTime)
}

func TestClaimCappedByVault(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))

	p := env.mustPool(t)
	require.NoError(t, env.execute("seed", func(t *tx) error {
		user, err := t.getUser(env.pool, alice)
		if err != nil {
			return err
		}
		user.Position.RewardPerTokenPending = 500
		if err := t.setUser(user); err != nil {
			return err
		}
		return t.vault.Mint(rewardToken, p.RewardVault, 300)
	}))

	paid, err := env.Claim(alice, env.pool)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), paid)
	assert.Zero(t, env.mustUser(t, alice).Position.RewardPerTokenPending)
	assert.Zero(t, env.balance(t, rewardToken, p.RewardVault))
	assert.Equal(t, uint64(300), env.balance(t, rewardToken, alice))

	// the unpaid 200 is gone
	paid, err = env.Claim(alice, env.pool)
	require.NoError(t, err)
	assert.Zero(t, paid)
}

func TestCheckpointWithoutStakers(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.Fund(authority, env.pool, 10*day))
	require.NoError(t, env.CreateUser(alice, env.pool))

	env.clock.Advance(500)
	require.NoError(t, env.Stake(alice, env.pool, 100))

	p := env.mustPool(t)
	assert.True(t, p.Schedule.RewardPerTokenStored.IsZero())
	assert.Equal(t, uint64(1500), p.Schedule.LastUpdateTime)

	// rewards of the unstaked period are never attributed
	env.clock.Advance(100)
	earned, err := env.Earned(env.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), earned)
}

func TestEarnedDoesNotCheckpoint(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 100))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))

	env.clock.Advance(10)
	before := env.mustPool(t)
	_, err := env.Earned(env.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, before, env.mustPool(t))
}

func TestUserEarned(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 100))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))

	env.clock.Advance(10)
	user, earned, err := env.UserEarned(env.pool, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), user.Position.BalanceStaked)
	assert.Equal(t, uint64(100), earned)

	_, _, err = env.UserEarned(env.pool, bob)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExecuteLeavesNoChanges(t *testing.T) {
	env := newTestEnv(t, 1000)
	errRejected := errors.New("rejected")

	err := env.execute("seed", func(t *tx) error {
		if err := t.vault.Mint(stakeToken, alice, 1); err != nil {
			return err
		}
		return errRejected
	})
	assert.ErrorIs(t, err, errRejected)
	assert.Zero(t, env.state.Stage().Len())

	balance, err := env.Balance(stakeToken, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), balance)

	require.NoError(t, env.Mint(stakeToken, alice, 1))
	assert.Zero(t, env.state.Stage().Len())

	balance, err = env.Balance(stakeToken, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_001), balance)
}

func TestPauseUnpause(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.Fund(authority, env.pool, 10*day))

	assert.ErrorIs(t, env.Pause(alice, env.pool), ErrUnauthorized)
	assert.ErrorIs(t, env.Pause(authority, env.pool), ErrEpochNotElapsed)

	// the epoch must have strictly ended
	env.clock.Set(1000 + day)
	assert.ErrorIs(t, env.Pause(authority, env.pool), ErrEpochNotElapsed)

	env.clock.Advance(1)
	require.NoError(t, env.Pause(authority, env.pool))
	assert.True(t, env.mustPool(t).Paused)
	assert.ErrorIs(t, env.Pause(authority, env.pool), ErrPoolPaused)

	assert.ErrorIs(t, env.Unpause(alice, env.pool), ErrUnauthorized)
	require.NoError(t, env.Unpause(authority, env.pool))
	assert.False(t, env.mustPool(t).Paused)
	assert.ErrorIs(t, env.Unpause(authority, env.pool), ErrPoolNotPaused)
}

// Entry is blocked while paused, exit is not.
func TestPausedAllowsExitOnly(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 100))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))

	env.clock.Advance(day + 1)
	require.NoError(t, env.Pause(authority, env.pool))

	assert.ErrorIs(t, env.Stake(alice, env.pool, 1), ErrPoolPaused)
	assert.ErrorIs(t, env.Fund(authority, env.pool, 1), ErrPoolPaused)

	paid, err := env.Claim(alice, env.pool)
	require.NoError(t, err)
	assert.Equal(t, 10*day, paid)
	require.NoError(t, env.Unstake(alice, env.pool, 100))

	// joining a paused pool is allowed, staking is not
	require.NoError(t, env.CreateUser(bob, env.pool))
	assert.ErrorIs(t, env.Stake(bob, env.pool, 1), ErrPoolPaused)
}

func TestCloseUser(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 100))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))

	assert.ErrorIs(t, env.CloseUser(alice, env.pool), ErrStorageConstraintViolated)

	env.clock.Advance(100)
	require.NoError(t, env.Unstake(alice, env.pool, 100))
	// the unstake checkpoint left reward pending
	assert.ErrorIs(t, env.CloseUser(alice, env.pool), ErrStorageConstraintViolated)

	_, err := env.Claim(alice, env.pool)
	require.NoError(t, err)
	require.NoError(t, env.CloseUser(alice, env.pool))

	assert.Zero(t, env.mustPool(t).UserStakeCount)
	_, err = env.User(env.pool, alice)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, env.CloseUser(alice, env.pool), ErrUserNotFound)
}

func TestClosePool(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))
	require.NoError(t, env.Stake(alice, env.pool, 100))

	assert.ErrorIs(t, env.ClosePool(authority, env.pool, nil), ErrPoolNotPaused)

	env.clock.Advance(day + 1)
	require.NoError(t, env.Pause(authority, env.pool))

	assert.ErrorIs(t, env.ClosePool(alice, env.pool, nil), ErrUnauthorized)
	// stake left
	assert.ErrorIs(t, env.ClosePool(authority, env.pool, nil), ErrStorageConstraintViolated)

	require.NoError(t, env.Unstake(alice, env.pool, 100))
	// a user left
	assert.ErrorIs(t, env.ClosePool(authority, env.pool, nil), ErrStorageConstraintViolated)

	// the stakers walk away without claiming, their reward is swept to the refundee
	env.clock.Advance(1)
	require.NoError(t, env.execute("forfeit", func(t *tx) error {
		u, err := t.getUser(env.pool, alice)
		if err != nil {
			return err
		}
		u.Position.RewardPerTokenPending = 0
		return t.setUser(u)
	}))
	require.NoError(t, env.CloseUser(alice, env.pool))

	p := env.mustPool(t)
	require.NoError(t, env.ClosePool(authority, env.pool, &CloseArgs{RewardRefundee: carol}))

	assert.Equal(t, 10*day, env.balance(t, rewardToken, carol))
	_, err := env.Pool(env.pool)
	assert.ErrorIs(t, err, ErrPoolNotFound)

	var vaultsLeft int
	_ = env.view(func(t *tx) error {
		for _, v := range [][2]thor.Address{{stakeToken, p.StakingVault}, {rewardToken, p.RewardVault}} {
			if _, exist, _ := t.vault.Account(v[0], v[1]); exist {
				vaultsLeft++
			}
		}
		return nil
	})
	assert.Zero(t, vaultsLeft)

	// the pool id can be reused
	_, err = env.InitializePool(authority, &InitializeArgs{StakingAsset: stakeToken, RewardAsset: rewardToken, RewardDuration: day})
	assert.NoError(t, err)
}

func TestClosePoolNeverFunded(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.Pause(authority, env.pool))
	assert.ErrorIs(t, env.ClosePool(authority, env.pool, nil), ErrEpochNotElapsed)
}

func TestTransferJournal(t *testing.T) {
	env := newTestEnv(t, 1000).withPool(t, 0, false)
	require.NoError(t, env.CreateUser(alice, env.pool))
	require.NoError(t, env.Stake(alice, env.pool, 100))
	require.NoError(t, env.Fund(authority, env.pool, 10*day))
	// rejected operations leave no trace
	assert.Error(t, env.Stake(alice, env.pool, 10_000_000))

	got, err := env.transfers.Filter(t.Context(), &transferdb.Filter{Pool: &env.pool})
	require.NoError(t, err)
	require.Len(t, got, 2)

	p := env.mustPool(t)
	assert.Equal(t, "stake", got[0].Op)
	assert.Equal(t, alice, got[0].From)
	assert.Equal(t, p.StakingVault, got[0].To)
	assert.Equal(t, uint64(100), got[0].Amount)
	assert.Equal(t, "fund", got[1].Op)
	assert.Equal(t, p.RewardVault, got[1].To)
	assert.Equal(t, uint64(1000), got[1].Time)
}
