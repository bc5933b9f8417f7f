// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meterio/meter-auction/genesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"
)

func TestParseFeeRate(t *testing.T) {
	for _, c := range []struct {
		in  string
		bps int64
	}{
		{"2.5", 250},
		{"0", 0},
		{"100", 10000},
		{"0.01", 1},
	} {
		bps, err := parseFeeRate(c.in)
		require.Nil(t, err, c.in)
		assert.Equal(t, c.bps, bps.Int64(), c.in)
	}

	for _, bad := range []string{"abc", "-1", "100.01", "0.001"} {
		_, err := parseFeeRate(bad)
		assert.NotNil(t, err, bad)
	}
}

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{configFlag, dataDirFlag, apiAddrFlag, apiCorsFlag, apiTimeoutFlag,
		apiBacktraceLimitFlag, verbosityFlag, feeRateFlag, feeRecipientFlag, skipNTPFlag} {
		f.Apply(set)
	}
	require.Nil(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("api-addr: 0.0.0.0:9000\nfee-rate: \"1\"\nskip-ntp: true\n"), 0600))

	cfg, err := loadConfig(newContext(t, "--config", path))
	require.Nil(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.APIAddr)
	assert.Equal(t, "1", cfg.FeeRate)
	assert.True(t, cfg.SkipNTP)
	assert.Equal(t, 3, cfg.Verbosity)

	cfg, err = loadConfig(newContext(t, "--config", path, "--api-addr", "localhost:1", "--fee-rate", "5"))
	require.Nil(t, err)
	assert.Equal(t, "localhost:1", cfg.APIAddr)
	assert.Equal(t, "5", cfg.FeeRate)

	gc, err := cfg.genesisConfig()
	require.Nil(t, err)
	assert.Equal(t, int64(500), gc.FeeRate.Int64())
	assert.Equal(t, genesis.DevAccounts()[0].Address, gc.FeeRecipient)

	require.Nil(t, os.WriteFile(path, []byte("unknown: 1\n"), 0600))
	_, err = loadConfig(newContext(t, "--config", path))
	assert.NotNil(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, logLevel(3))
	assert.Equal(t, slog.LevelDebug, logLevel(4))
	assert.True(t, logLevel(0) > slog.LevelError)
}
