// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/config"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{dataDirFlag, configFlag, cacheFlag, devFlag, persistFlag, verbosityFlag, logFormatFlag} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(nil, set, nil)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.GreaterOrEqual(t, normalizeCacheSize(1), 1)
	assert.LessOrEqual(t, normalizeCacheSize(1), 128)
}

func TestSuggestFDCache(t *testing.T) {
	n := suggestFDCache()
	assert.Positive(t, n)
	assert.LessOrEqual(t, n, 5120)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(newContext(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domain: local\n"), 0o600))
	cfg, err = loadConfig(newContext(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Domain)

	_, err = loadConfig(newContext(t, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, initLogger(newContext(t, "--verbosity", "3", "--log-format", "json")))
	assert.NoError(t, initLogger(newContext(t, "--log-format", "logfmt")))
	assert.Error(t, initLogger(newContext(t, "--verbosity", "10")))
	assert.Error(t, initLogger(newContext(t, "--log-format", "xml")))
}

func TestOpenDatabases(t *testing.T) {
	mainDB, transferDB, dir, err := openDatabases(newContext(t, "--dev"), config.Default())
	require.NoError(t, err)
	assert.Equal(t, "Memory", dir)
	mainDB.Close()
	transferDB.Close()

	dataDir := filepath.Join(t.TempDir(), "data")
	mainDB, transferDB, dir, err = openDatabases(newContext(t, "--data-dir", dataDir), config.Default())
	require.NoError(t, err)
	assert.Equal(t, dataDir, dir)
	assert.FileExists(t, filepath.Join(dataDir, "transfers.db"))
	mainDB.Close()
	transferDB.Close()
}

func TestHandleAPITimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})

	rec := httptest.NewRecorder()
	handleAPITimeout(slow, 10*time.Millisecond).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	handleAPITimeout(http.NotFoundHandler(), 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
