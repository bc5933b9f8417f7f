// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"
	yaml "gopkg.in/yaml.v2"
)

// Config is the file form of the command line flags.
type Config struct {
	DataDir        string `yaml:"data-dir"`
	APIAddr        string `yaml:"api-addr"`
	APICors        string `yaml:"api-cors"`
	APITimeout     int    `yaml:"api-timeout"`
	BacktraceLimit int    `yaml:"api-backtrace-limit"`
	Verbosity      int    `yaml:"verbosity"`
	FeeRate        string `yaml:"fee-rate"`
	FeeRecipient   string `yaml:"fee-recipient"`
	SkipNTP        bool   `yaml:"skip-ntp"`
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return &cfg, nil
}

// loadConfig merges flag values over the config file. A flag given on the
// command line always wins, a value set in the file beats the flag default.
func loadConfig(ctx *cli.Context) (*Config, error) {
	file := &Config{}
	if path := ctx.String(configFlag.Name); path != "" {
		var err error
		if file, err = loadConfigFile(path); err != nil {
			return nil, err
		}
	}
	str := func(flag cli.StringFlag, fromFile string) string {
		if ctx.IsSet(flag.Name) || fromFile == "" {
			return ctx.String(flag.Name)
		}
		return fromFile
	}
	num := func(flag cli.IntFlag, fromFile int) int {
		if ctx.IsSet(flag.Name) || fromFile == 0 {
			return ctx.Int(flag.Name)
		}
		return fromFile
	}
	return &Config{
		DataDir:        str(dataDirFlag, file.DataDir),
		APIAddr:        str(apiAddrFlag, file.APIAddr),
		APICors:        str(apiCorsFlag, file.APICors),
		APITimeout:     num(apiTimeoutFlag, file.APITimeout),
		BacktraceLimit: num(apiBacktraceLimitFlag, file.BacktraceLimit),
		Verbosity:      num(verbosityFlag, file.Verbosity),
		FeeRate:        str(feeRateFlag, file.FeeRate),
		FeeRecipient:   str(feeRecipientFlag, file.FeeRecipient),
		SkipNTP:        ctx.Bool(skipNTPFlag.Name) || file.SkipNTP,
	}, nil
}

// parseFeeRate converts a percentage such as "2.5" into basis points.
func parseFeeRate(s string) (*big.Int, error) {
	pct, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrap(err, "fee rate")
	}
	bps := pct.Mul(decimal.NewFromInt(100))
	if !bps.IsInteger() {
		return nil, errors.Errorf("fee rate %v: finer than one basis point", s)
	}
	if bps.IsNegative() || bps.GreaterThan(decimal.NewFromInt(meter.FeeRateDenominator)) {
		return nil, errors.Errorf("fee rate %v: out of range [0, 100]", s)
	}
	return bps.BigInt(), nil
}

func (c *Config) genesisConfig() (genesis.Config, error) {
	gc := genesis.DefaultConfig()
	rate, err := parseFeeRate(c.FeeRate)
	if err != nil {
		return gc, err
	}
	gc.FeeRate = rate
	if c.FeeRecipient != "" {
		addr, err := meter.ParseAddress(c.FeeRecipient)
		if err != nil {
			return gc, errors.WithMessage(err, "fee recipient")
		}
		gc.FeeRecipient = addr
	}
	return gc, nil
}
