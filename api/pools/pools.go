// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/auth"
	"github.com/vechain/rewardpool/staking"
	"github.com/vechain/rewardpool/thor"
)

type Pools struct {
	engine   *staking.Engine
	verifier *auth.Verifier
}

func New(engine *staking.Engine, verifier *auth.Verifier) *Pools {
	return &Pools{
		engine,
		verifier,
	}
}

// authorize parses the envelope, decodes its args into v and returns the verified caller.
func (p *Pools) authorize(req *http.Request, op string, pool thor.Address, v any) (thor.Address, error) {
	var env Envelope
	if err := utils.ParseJSON(req.Body, &env); err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if v != nil && len(env.Args) > 0 {
		if err := utils.ParseJSON(bytes.NewReader(env.Args), v); err != nil {
			return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "args"))
		}
	}
	caller, err := p.verifier.Verify(&auth.Request{
		Op:        op,
		Pool:      pool,
		Args:      env.Args,
		Nonce:     env.Nonce,
		Expiry:    env.Expiry,
		Signature: env.Signature,
	})
	if err != nil {
		return thor.Address{}, convertError(err)
	}
	return caller, nil
}

func parsePool(req *http.Request) (thor.Address, error) {
	id, err := thor.ParseAddress(mux.Vars(req)["pool"])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, "pool"))
	}
	return id, nil
}

func (p *Pools) handleInitialize(w http.ResponseWriter, req *http.Request) error {
	var args InitializeArgs
	caller, err := p.authorize(req, "initialize_pool", thor.Address{}, &args)
	if err != nil {
		return err
	}
	id, err := p.engine.InitializePool(caller, &staking.InitializeArgs{
		Nonce:          args.Nonce,
		StakingAsset:   args.StakingAsset,
		RewardAsset:    args.RewardAsset,
		RewardDuration: args.RewardDuration,
		LockPeriod:     args.LockPeriod,
		NoTier:         args.NoTier,
	})
	if err != nil {
		return convertError(err)
	}
	pool, err := p.engine.Pool(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(id, pool))
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePool(req)
	if err != nil {
		return err
	}
	pool, err := p.engine.Pool(id)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertPool(id, pool))
}

func (p *Pools) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePool(req)
	if err != nil {
		return err
	}
	owner, err := thor.ParseAddress(mux.Vars(req)["owner"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "owner"))
	}
	user, earned, err := p.engine.UserEarned(id, owner)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertUser(user, earned, p.engine.Now()))
}

// handleOp serves an operation addressed to an existing pool.
func (p *Pools) handleOp(op *operation) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		id, err := parsePool(req)
		if err != nil {
			return err
		}
		var args any
		if op.args != nil {
			args = op.args()
		}
		caller, err := p.authorize(req, op.name, id, args)
		if err != nil {
			return err
		}
		result, err := op.run(caller, id, args)
		if err != nil {
			return convertError(err)
		}
		if result == nil {
			result = utils.M{}
		}
		return utils.WriteJSON(w, result)
	}
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleInitialize))
	sub.Path("/{pool}").
		Methods(http.MethodGet).
		Name("GET /pools/{pool}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pool}/users/{owner}").
		Methods(http.MethodGet).
		Name("GET /pools/{pool}/users/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUser))

	for _, op := range p.ops() {
		sub.Path("/{pool}/" + op.name).
			Methods(http.MethodPost).
			Name("POST /pools/{pool}/" + op.name).
			HandlerFunc(utils.WrapHandlerFunc(p.handleOp(op)))
	}
}
