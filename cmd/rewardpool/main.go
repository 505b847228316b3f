// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api"
	"github.com/vechain/rewardpool/auth"
	"github.com/vechain/rewardpool/clock"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/staking"
	"github.com/vechain/rewardpool/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "rewardpool",
		Usage:     "Shared-pool staking reward service",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			logFormatFlag,
			ntpServerFlag,
			devFlag,
			persistFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	if err := initLogger(ctx); err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	checkClock(ctx.String(ntpServerFlag.Name))

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	mainDB, transferDB, dataDir, err := openDatabases(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); mainDB.Close() }()
	defer func() { logger.Info("closing transfer database..."); transferDB.Close() }()

	clk := clock.NewSystem()
	healthStatus := health.New()
	engine, err := staking.New(mainDB, clk, staking.Options{
		Thresholds: cfg.Tiers,
		CacheSize:  cfg.Cache,
		Transfers:  transferDB,
		Health:     healthStatus,
	})
	if err != nil {
		return err
	}
	verifier, err := auth.NewVerifier(thor.Blake2b([]byte(cfg.Domain)), clk, cfg.API.CacheSize)
	if err != nil {
		return err
	}

	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler := api.New(engine, verifier, transferDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		TransferLimit:        cfg.API.TransferPage,
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		Dev:                  ctx.Bool(devFlag.Name),
		Health:               healthStatus,
	})

	timeout := cfg.API.Timeout
	if ctx.IsSet(apiTimeoutFlag.Name) {
		timeout = ctx.Uint64(apiTimeoutFlag.Name)
	}

	group, groupCtx := errgroup.WithContext(exitSignal)

	apiSrv, apiURL, err := newServer(ctx.String(apiAddrFlag.Name), handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond))
	if err != nil {
		return err
	}
	serve(groupCtx, group, apiSrv)

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv, url, err := newServer(ctx.String(metricsAddrFlag.Name), metricsHandler())
		if err != nil {
			return err
		}
		metricsURL = url + "metrics"
		serve(groupCtx, group, metricsSrv)
	}

	printStartupMessage(dataDir, apiURL, metricsURL, cfg.Domain)

	return group.Wait()
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, group *errgroup.Group, srv *server) {
	group.Go(func() error {
		if err := srv.Serve(srv.listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
