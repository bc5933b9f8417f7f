// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/meterio/meter-auction/api"
	"github.com/meterio/meter-auction/builtin"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/packer"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
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
		Name:      "meter-auction",
		Usage:     "Escrowed auction ledger",
		Copyright: "2020 Meter Foundation <https://meter.io/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			verbosityFlag,
			feeRateFlag,
			feeRecipientFlag,
			devnetFlag,
			skipNTPFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "inspect",
				Usage: "dump an auction record from the data dir",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					feeRateFlag,
					feeRecipientFlag,
					auctionFlag,
				},
				Action: inspectAction,
			},
			{
				Name:  "derive",
				Usage: "print the addresses an auction would use",
				Flags: []cli.Flag{
					creatorFlag,
					mintFlag,
					seedFlag,
				},
				Action: deriveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(cfg.Verbosity)
	defer func() { slog.Info("exited") }()

	if !cfg.SkipNTP {
		go checkClockOffset()
	}

	gene := selectGenesis(cfg)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(devnetFlag.Name) {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	} else {
		instanceDir = makeInstanceDir(cfg, gene)
		mainDB = openMainDB(instanceDir)
		logDB = openLogDB(instanceDir)
	}
	defer func() { slog.Info("closing main database..."); mainDB.Close() }()
	defer func() { slog.Info("closing log database..."); logDB.Close() }()

	chain := initChain(gene, mainDB)
	stateCreator := state.NewCreator(mainDB)
	p := packer.New(chain, stateCreator, script.NewScriptEngine(), logDB)

	apiHandler, apiCloser := api.New(chain, stateCreator, p, logDB, api.Config{
		AllowedOrigins: cfg.APICors,
		BacktraceLimit: uint32(cfg.BacktraceLimit),
		Version:        fullVersion(),
	})
	defer func() { slog.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(cfg, apiHandler, chain.GenesisBlock().Header().ID())
	defer func() { slog.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, chain, instanceDir, apiURL)

	<-exitSignal.Done()
	return nil
}

func inspectAction(ctx *cli.Context) error {
	addr, err := meter.ParseAddress(ctx.String(auctionFlag.Name))
	if err != nil {
		return errors.WithMessage(err, auctionFlag.Name)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	initLogger(1)

	gene := selectGenesis(cfg)
	mainDB := openMainDB(makeInstanceDir(cfg, gene))
	defer mainDB.Close()
	chain := initChain(gene, mainDB)

	st, err := state.NewCreator(mainDB).NewState(chain.BestBlock().Header().StateRoot())
	if err != nil {
		return err
	}
	r := st.GetAuctionRecord(addr)
	if err := st.Err(); err != nil {
		return err
	}
	if r == nil {
		return errors.Errorf("auction %v not found", addr)
	}
	spew.Dump(r)
	fmt.Println("escrow balance:", st.GetBalance(r.Escrow))
	if h := builtin.Asset.Native(st).GetHolding(r.Vault); h != nil {
		fmt.Println("vault amount:", h.Amount)
	}
	return st.Err()
}

func deriveAction(ctx *cli.Context) error {
	creator, err := meter.ParseAddress(ctx.String(creatorFlag.Name))
	if err != nil {
		return errors.WithMessage(err, creatorFlag.Name)
	}
	mint, err := meter.ParseBytes32(ctx.String(mintFlag.Name))
	if err != nil {
		return errors.WithMessage(err, mintFlag.Name)
	}
	addr := auction.AuctionAddress(creator, mint, ctx.Uint64(seedFlag.Name))
	fmt.Printf(`auction    %v
authority  %v
escrow     %v
vault      %v
`,
		addr,
		auction.AuthorityAddress(addr),
		auction.EscrowAddress(addr),
		auction.VaultAddress(mint, addr))
	return nil
}
