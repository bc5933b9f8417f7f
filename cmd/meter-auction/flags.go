// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path of a yaml config file, flags override its values",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiBacktraceLimitFlag = cli.IntFlag{
		Name:  "api-backtrace-limit",
		Value: 1000,
		Usage: "limit the distance between 'position' and best block for subscriptions APIs",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	feeRateFlag = cli.StringFlag{
		Name:  "fee-rate",
		Value: "2.5",
		Usage: "platform fee in percent of the winning bid, seeded at genesis",
	}
	feeRecipientFlag = cli.StringFlag{
		Name:  "fee-recipient",
		Usage: "address receiving platform fees (defaults to the first dev account)",
	}
	devnetFlag = cli.BoolFlag{
		Name:  "devnet",
		Usage: "run on in-memory databases",
	}
	skipNTPFlag = cli.BoolFlag{
		Name:  "skip-ntp",
		Usage: "skip the clock offset check",
	}
	auctionFlag = cli.StringFlag{
		Name:  "auction",
		Usage: "auction address",
	}
	creatorFlag = cli.StringFlag{
		Name:  "creator",
		Usage: "auction creator address",
	}
	mintFlag = cli.StringFlag{
		Name:  "mint",
		Usage: "mint id of the auctioned asset",
	}
	seedFlag = cli.Uint64Flag{
		Name:  "seed",
		Usage: "seed chosen by the creator",
	}
)
