// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/clock"
	"github.com/vechain/rewardpool/config"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/transferdb"
)

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".rewardpool")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func newLogHandler(verbosity uint64, format string) (slog.Handler, error) {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(verbosity)))
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	return log.NewHandler(os.Stderr, format, &level, useColor)
}

func initLogger(ctx *cli.Context) error {
	verbosity := ctx.Uint64(verbosityFlag.Name)
	if verbosity > 9 {
		return errors.Errorf("invalid verbosity %d", verbosity)
	}
	handler, err := newLogHandler(verbosity, ctx.String(logFormatFlag.Name))
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "config %v", path)
	}
	logger.Info("config loaded", "path", path)
	return cfg, nil
}

func checkClock(server string) {
	if server == "" {
		return
	}
	if _, err := clock.CheckOffset(server); err != nil {
		logger.Warn("unable to check local clock", "server", server, "err", err)
	}
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

// openDatabases opens the state and transfer databases, in memory for
// dev mode without --persist.
func openDatabases(ctx *cli.Context, cfg *config.Config) (*lvldb.LevelDB, *transferdb.TransferDB, string, error) {
	if ctx.Bool(devFlag.Name) && !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", err
		}
		transferDB, err := transferdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, nil, "", err
		}
		return mainDB, transferDB, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, nil, "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	cacheMB := cfg.LevelDB.CacheSize
	if ctx.IsSet(cacheFlag.Name) {
		cacheMB = ctx.Int(cacheFlag.Name)
	}
	cacheMB = normalizeCacheSize(cacheMB)
	fdCache := cfg.LevelDB.OpenFilesCacheCapacity
	if suggested := suggestFDCache(); fdCache <= 0 || fdCache > suggested {
		fdCache = suggested
	}
	logger.Debug("state db options", "cacheMB", cacheMB, "fdCache", fdCache)

	dir := filepath.Join(dataDir, "state.db")
	mainDB, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, nil, "", errors.Wrapf(err, "open state database [%v]", dir)
	}

	dir = filepath.Join(dataDir, "transfers.db")
	transferDB, err := transferdb.New(dir)
	if err != nil {
		mainDB.Close()
		return nil, nil, "", errors.Wrapf(err, "open transfer database [%v]", dir)
	}
	return mainDB, transferDB, dataDir, nil
}

type server struct {
	*http.Server
	listener net.Listener
}

func newServer(addr string, handler http.Handler) (*server, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Wrapf(err, "listen addr [%v]", addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	return &server{srv, listener}, "http://" + listener.Addr().String() + "/", nil
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	if timeout == 0 {
		return h
	}
	return http.TimeoutHandler(h, timeout, "request timeout")
}

func printStartupMessage(dataDir, apiURL, metricsURL, domain string) {
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	fmt.Printf(`Starting rewardpool %v
    Domain      [ %v ]
    Data dir    [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
`,
		fullVersion(),
		domain,
		dataDir,
		apiURL,
		metricsURL,
	)
}
