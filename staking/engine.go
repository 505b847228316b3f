// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/clock"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/staking/internal/vault"
	"github.com/vechain/rewardpool/staking/tier"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/transferdb"
)

var logger = log.WithContext("pkg", "staking")

var (
	poolsBucket = kv.Bucket("pool/")
	usersBucket = kv.Bucket("user/")
)

// Options configures an Engine.
type Options struct {
	Thresholds tier.Thresholds // defaults to tier.DefaultThresholds
	CacheSize  int             // entries of the committed value cache, 0 disables it
	Transfers  *transferdb.TransferDB
	Health     *health.Health
}

// Engine executes staking operations. Each operation is one transaction: it runs at its own
// revision of the working state and is committed as a single batch only if every step succeeds.
// Transactions are serialized.
type Engine struct {
	mu         sync.Mutex
	state      *state.State // holds no changes between transactions
	cache      *cache.LRU
	clock      clock.Source
	thresholds tier.Thresholds
	transfers  *transferdb.TransferDB
	health     *health.Health
}

// New creates an engine over the store.
func New(store kv.Store, clk clock.Source, opts Options) (*Engine, error) {
	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = tier.DefaultThresholds
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	var lru *cache.LRU
	if opts.CacheSize > 0 {
		var err error
		if lru, err = cache.NewLRU(opts.CacheSize); err != nil {
			return nil, err
		}
	}
	return &Engine{
		state:      state.New(store, lru),
		cache:      lru,
		clock:      clk,
		thresholds: thresholds,
		transfers:  opts.Transfers,
		health:     opts.Health,
	}, nil
}

// tx is the context of one operation.
type tx struct {
	now        uint64
	thresholds tier.Thresholds
	pools      *state.Mapping[thor.Address, *Pool]
	users      *state.Mapping[userKey, *User]
	vault      *vault.Vault
	pool       thor.Address
	committed  []func()
}

// onCommit registers fn to run once the transaction is committed.
func (t *tx) onCommit(fn func()) {
	t.committed = append(t.committed, fn)
}

func (e *Engine) newTx(st *state.State) *tx {
	return &tx{
		now:        e.clock.Now(),
		thresholds: e.thresholds,
		pools:      state.NewMapping[thor.Address, *Pool](st, poolsBucket),
		users:      state.NewMapping[userKey, *User](st, usersBucket),
		vault:      vault.New(st),
	}
}

// execute runs fn in a transaction and commits its changes if it succeeds.
func (e *Engine) execute(op string, fn func(t *tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	defer func() {
		metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	rev := e.state.NewCheckpoint()
	defer e.state.RevertTo(rev)

	t := e.newTx(e.state)
	if err := fn(t); err != nil {
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "failed"})
		logger.Debug("operation rejected", "op", op, "pool", t.pool, "err", err)
		return err
	}

	stage := e.state.Stage()
	if err := stage.Commit(); err != nil {
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "failed"})
		logger.Error("failed to commit", "op", op, "pool", t.pool, "err", err)
		if e.health != nil {
			e.health.CommitFailed(op, err)
		}
		return errors.Wrap(err, "commit")
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	metricCommitKeys().Observe(int64(stage.Len()))
	if e.health != nil {
		e.health.Committed(op)
	}

	if e.cache != nil {
		if hit, miss, moved := e.cache.Stats().Report(); moved {
			logger.Debug("state cache stats", "hit", hit, "miss", miss)
		}
	}

	e.journal(op, t)
	for _, fn := range t.committed {
		fn()
	}
	return nil
}

// journal records the transfers of a committed transaction. The journal is an index only,
// a failure is logged and does not affect the committed state.
func (e *Engine) journal(op string, t *tx) {
	if e.transfers == nil {
		return
	}
	executed := t.vault.Transfers()
	if len(executed) == 0 {
		return
	}
	records := make([]*transferdb.Transfer, 0, len(executed))
	for _, tr := range executed {
		records = append(records, &transferdb.Transfer{
			Op:     op,
			Pool:   t.pool,
			Asset:  tr.Asset,
			From:   tr.From,
			To:     tr.To,
			Amount: tr.Amount,
			Time:   t.now,
		})
	}
	if err := e.transfers.Insert(records); err != nil {
		logger.Warn("failed to journal transfers", "op", op, "pool", t.pool, "err", err)
	}
}

// view runs fn against the committed state. Nothing is written.
func (e *Engine) view(fn func(t *tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rev := e.state.NewCheckpoint()
	defer e.state.RevertTo(rev)

	return fn(e.newTx(e.state))
}

func (t *tx) getPool(id thor.Address) (*Pool, error) {
	t.pool = id
	pool, exist, err := t.pools.Get(id)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, errors.WithMessagef(ErrPoolNotFound, "pool %v", id)
	}
	return pool, nil
}

func (t *tx) getUser(pool, owner thor.Address) (*User, error) {
	user, exist, err := t.users.Get(userKey{pool, owner})
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, errors.WithMessagef(ErrUserNotFound, "owner %v pool %v", owner, pool)
	}
	return user, nil
}

func (t *tx) setPool(id thor.Address, pool *Pool) error {
	return t.pools.Set(id, pool)
}

func (t *tx) setUser(user *User) error {
	return t.users.Set(userKey{user.Pool, user.Owner}, user)
}

// Pool returns the pool record.
func (e *Engine) Pool(id thor.Address) (pool *Pool, err error) {
	err = e.view(func(t *tx) error {
		pool, err = t.getPool(id)
		return err
	})
	return
}

// User returns the user record of owner in the pool.
func (e *Engine) User(pool, owner thor.Address) (user *User, err error) {
	err = e.view(func(t *tx) error {
		user, err = t.getUser(pool, owner)
		return err
	})
	return
}

// Balance returns the balance of addr for the asset.
func (e *Engine) Balance(asset, addr thor.Address) (balance uint64, err error) {
	err = e.view(func(t *tx) error {
		balance, err = t.vault.Balance(asset, addr)
		return err
	})
	return
}

// Earned returns the reward owner could claim now, without checkpointing.
func (e *Engine) Earned(pool, owner thor.Address) (uint64, error) {
	_, earned, err := e.UserEarned(pool, owner)
	return earned, err
}

// UserEarned returns the user record together with the reward it could claim now,
// both read from the same committed state.
func (e *Engine) UserEarned(pool, owner thor.Address) (user *User, earned uint64, err error) {
	err = e.view(func(t *tx) error {
		p, err := t.getPool(pool)
		if err != nil {
			return err
		}
		if user, err = t.getUser(pool, owner); err != nil {
			return err
		}
		rpt, err := p.Schedule.RewardPerToken(p.TotalStaked, t.now)
		if err != nil {
			return err
		}
		earned, err = user.Position.Earned(rpt)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return user, earned, nil
}

// Mint credits amount of asset to addr. It is a faucet for development networks.
func (e *Engine) Mint(asset, to thor.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	return e.execute("mint", func(t *tx) error {
		return t.vault.Mint(asset, to, amount)
	})
}

// Now returns the time of the engine clock.
func (e *Engine) Now() uint64 {
	return e.clock.Now()
}
