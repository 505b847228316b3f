// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/accounts"
	"github.com/vechain/rewardpool/api/middleware"
	"github.com/vechain/rewardpool/api/pools"
	"github.com/vechain/rewardpool/api/transfers"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/auth"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/staking"
	"github.com/vechain/rewardpool/transferdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	TransferLimit        uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	Dev                  bool
	Health               *health.Health
}

// Node describes the service to clients building signed requests.
type Node struct {
	Domain string `json:"domain"`
	Now    uint64 `json:"now"`
	Dev    bool   `json:"dev"`
}

// New return api router
func New(
	engine *staking.Engine,
	verifier *auth.Verifier,
	transferDB *transferdb.TransferDB,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.Path("/node").
		Methods(http.MethodGet).
		Name("GET /node").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			domain := verifier.Domain()
			return utils.WriteJSON(w, &Node{
				Domain: domain.String(),
				Now:    engine.Now(),
				Dev:    opts.Dev,
			})
		}))

	if opts.Health != nil {
		router.Path("/health").
			Methods(http.MethodGet).
			Name("GET /health").
			HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
				status := opts.Health.Status()
				if !status.Healthy {
					w.Header().Set("Content-Type", utils.JSONContentType)
					w.WriteHeader(http.StatusServiceUnavailable)
				}
				return utils.WriteJSON(w, status)
			}))
	}

	pools.New(engine, verifier).
		Mount(router, "/pools")
	accounts.New(engine, opts.Dev).
		Mount(router, "/accounts")
	if transferDB != nil {
		transfers.New(transferDB, opts.TransferLimit).
			Mount(router, "/transfers")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP
}
