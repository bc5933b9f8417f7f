// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/meterio/meter-auction/chain"
	"github.com/meterio/meter-auction/co"
	"github.com/meterio/meter-auction/genesis"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// verbosity 0..5 maps to silent, error, warn, info, debug and trace.
func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelError + 4
	case verbosity == 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	case verbosity == 4:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}

func initLogger(verbosity int) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(verbosity),
		TimeFormat: time.DateTime,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
}

func selectGenesis(cfg *Config) *genesis.Genesis {
	gc, err := cfg.genesisConfig()
	if err != nil {
		fatal("genesis config:", err)
	}
	gene, err := genesis.NewDevnet(gc)
	if err != nil {
		fatal("build genesis:", err)
	}
	return gene
}

func makeDataDir(cfg *Config) string {
	dataDir := cfg.DataDir
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(cfg *Config, gene *genesis.Genesis) string {
	dataDir := makeDataDir(cfg)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(dataDir string) *lvldb.LevelDB {
	if _, err := fdlimit.Raise(5120 * 4); err != nil {
		fatal("failed to increase fd limit", err)
	}
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		slog.Warn("low fd limit, increase it if possible", "limit", limit)
	} else {
		slog.Info("fd limit", "limit", limit)
	}

	fileCache := limit / 2
	if fileCache > 1024 {
		fileCache = 1024
	}

	dir := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: fileCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open chain database [%v]: %v", dir, err))
	}
	return db
}

func openLogDB(dataDir string) *logdb.LogDB {
	dir := filepath.Join(dataDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open chain database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

// initChain seeds genesis state on an empty database, otherwise reopens the
// chain on top of what was committed before.
func initChain(gene *genesis.Genesis, mainDB *lvldb.LevelDB) *chain.Chain {
	root, err := state.LatestRoot(mainDB)
	if err != nil {
		fatal("read state root:", err)
	}
	genesisBlock := gene.Block()
	if root.IsZero() {
		if genesisBlock, err = gene.Build(state.NewCreator(mainDB)); err != nil {
			fatal("build genesis block:", err)
		}
	}

	c, err := chain.New(mainDB, genesisBlock)
	if err != nil {
		fatal("initialize block chain:", err)
	}
	if best := c.BestBlock().Header(); !root.IsZero() && root != best.StateRoot() {
		// the block write failed after its state was committed
		slog.Warn("state root differs from best block", "root", root, "best", best.StateRoot(), "number", best.Number())
	}
	return c
}

func startAPIServer(cfg *Config, handler http.Handler, genesisID meter.Bytes32) (string, func()) {
	listener, err := net.Listen("tcp", cfg.APIAddr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", cfg.APIAddr, err))
	}

	if cfg.APITimeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(cfg.APITimeout)*time.Millisecond)
	}
	handler = handleXGenesisID(handler, genesisID)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("API server stopped", "err", err)
		}
	})
	return "http://" + listener.Addr().String() + "/", func() {
		if err := srv.Close(); err != nil {
			slog.Warn("could not close API service", "err", err)
		}
		goes.Wait()
	}
}

func printStartupMessage(gene *genesis.Genesis, chain *chain.Chain, instanceDir string, apiURL string) {
	bestBlock := chain.BestBlock()

	fmt.Printf(`Starting %v
    Network         [ %v %v ]
    Best block      [ %v #%v @%v ]
    Instance dir    [ %v ]
    API portal      [ %v ]
`,
		"meter-auction "+fullVersion(),
		gene.ID(), gene.Name(),
		bestBlock.Header().ID(), bestBlock.Header().Number(), time.Unix(int64(bestBlock.Header().Timestamp()), 0),
		instanceDir,
		apiURL)
}
