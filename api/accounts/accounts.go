// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/staking"
	"github.com/vechain/rewardpool/thor"
)

type Balance struct {
	Asset   thor.Address `json:"asset"`
	Address thor.Address `json:"address"`
	Balance uint64       `json:"balance"`
}

type MintRequest struct {
	Asset  thor.Address `json:"asset"`
	To     thor.Address `json:"to"`
	Amount uint64       `json:"amount"`
}

type Accounts struct {
	engine *staking.Engine
	dev    bool
}

// New creates the accounts api. Minting is served only in dev mode.
func New(engine *staking.Engine, dev bool) *Accounts {
	return &Accounts{
		engine,
		dev,
	}
}

func parseAddress(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	asset, err := parseAddress(req, "asset")
	if err != nil {
		return err
	}
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	balance, err := a.engine.Balance(asset, addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{asset, addr, balance})
}

func (a *Accounts) handleMint(w http.ResponseWriter, req *http.Request) error {
	var mint MintRequest
	if err := utils.ParseJSON(req.Body, &mint); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.engine.Mint(mint.Asset, mint.To, mint.Amount); err != nil {
		if errors.Is(err, staking.ErrZeroAmount) || errors.Is(err, staking.ErrTransferFailed) {
			return utils.BadRequest(err)
		}
		return err
	}
	balance, err := a.engine.Balance(mint.Asset, mint.To)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{mint.Asset, mint.To, balance})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{asset}/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{asset}/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	if a.dev {
		sub.Path("/mint").
			Methods(http.MethodPost).
			Name("POST /accounts/mint").
			HandlerFunc(utils.WrapHandlerFunc(a.handleMint))
	}
}
