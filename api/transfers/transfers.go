// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/transferdb"
)

type FilteredTransfer struct {
	Seq    uint64       `json:"seq"`
	Op     string       `json:"op"`
	Pool   thor.Address `json:"pool"`
	Asset  thor.Address `json:"asset"`
	From   thor.Address `json:"from"`
	To     thor.Address `json:"to"`
	Amount uint64       `json:"amount"`
	Time   uint64       `json:"time"`
}

type Transfers struct {
	db    *transferdb.TransferDB
	limit uint64
}

func New(db *transferdb.TransferDB, limit uint64) *Transfers {
	return &Transfers{
		db,
		limit,
	}
}

func parseFilter(req *http.Request, limit uint64) (*transferdb.Filter, error) {
	query := req.URL.Query()
	filter := &transferdb.Filter{Order: transferdb.ASC}

	for _, key := range []string{"pool", "account"} {
		s := query.Get(key)
		if s == "" {
			continue
		}
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, key))
		}
		if key == "pool" {
			filter.Pool = &addr
		} else {
			filter.Account = &addr
		}
	}

	var err error
	if filter.Offset, err = utils.ParseUint(query.Get("offset"), 0); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if filter.Offset > math.MaxInt64 {
		return nil, utils.BadRequest(errors.Errorf("offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Limit, err = utils.ParseUint(query.Get("limit"), limit); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if filter.Limit > limit {
		return nil, utils.Forbidden(errors.Errorf("limit exceeds the maximum allowed value of %d", limit))
	}

	switch order := transferdb.Order(query.Get("order")); order {
	case "", transferdb.ASC:
	case transferdb.DESC:
		filter.Order = order
	default:
		return nil, utils.BadRequest(errors.Errorf("invalid order %q", order))
	}
	return filter, nil
}

func (t *Transfers) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseFilter(req, t.limit)
	if err != nil {
		return err
	}
	transfers, err := t.db.Filter(req.Context(), filter)
	if err != nil {
		return err
	}
	result := make([]*FilteredTransfer, len(transfers))
	for i, tr := range transfers {
		result[i] = &FilteredTransfer{
			Seq:    tr.Seq,
			Op:     tr.Op,
			Pool:   tr.Pool,
			Asset:  tr.Asset,
			From:   tr.From,
			To:     tr.To,
			Amount: tr.Amount,
			Time:   tr.Time,
		}
	}
	return utils.WriteJSON(w, result)
}

func (t *Transfers) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /transfers").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilterTransfers))
}
