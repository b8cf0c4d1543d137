// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/seqlock/api"
	"github.com/vechain/seqlock/api/admin"
	"github.com/vechain/seqlock/cmd/seqlock/httpserver"
	"github.com/vechain/seqlock/co"
	"github.com/vechain/seqlock/log"
	"github.com/vechain/seqlock/metrics"
	"github.com/vechain/seqlock/node"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
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
		Name:      "seqlock",
		Usage:     "Collateral locking engine for sequencer operators",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			logFormatFlag,
			cacheFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			adminAddrFlag,
			maxBatchLagFlag,
			ntpServerFlag,
			minLockFlag,
			maxLockFlag,
			maxOperatorsFlag,
			withdrawalDelayFlag,
			policyFlag,
			cutoffFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	if err := cfg.applyFlags(ctx); err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return errors.Wrap(err, "params")
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := makeDataDir(ctx, params.ChainID)

	stateDB := openStateDB(ctx, dataDir)
	defer func() { logger.Info("closing state database..."); stateDB.Close() }()

	eventDB := openEventDB(dataDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	readCacheSize := cfg.ReadCacheSize
	if readCacheSize <= 0 {
		readCacheSize = 1024
	}
	n, err := node.New(stateDB, eventDB, params, readCacheSize)
	if err != nil {
		return err
	}
	if err := initGenesis(n, cfg.Genesis); err != nil {
		return err
	}

	var apiLogs atomic.Bool
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiURL, stopAPI, err := httpserver.StartServer(ctx.String(apiAddrFlag.Name), api.New(n, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		EnableReqLogger: &apiLogs,
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		Version:         fullVersion(),
	}))
	if err != nil {
		return errors.Wrap(err, "start API server")
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrap(err, "start metrics server")
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		logger.Info("metrics server started", "url", url)
	}

	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		url, stop, err := httpserver.StartAdminServer(addr, n, admin.Options{
			LogLevel:    logLevel,
			APILogs:     &apiLogs,
			MaxBatchLag: ctx.Duration(maxBatchLagFlag.Name),
		})
		if err != nil {
			return errors.Wrap(err, "start admin server")
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		logger.Info("admin server started", "url", url)
	}

	logger.Info("seqlock started",
		"version", fullVersion(),
		"chainId", params.ChainID,
		"engine", params.Address,
		"dataDir", dataDir,
		"api", apiURL,
	)

	exitSignal := handleExitSignal()
	done := make(chan struct{})
	var goes co.Goes
	goes.Go(func() {
		ntpServer := ctx.String(ntpServerFlag.Name)
		checkClockOffset(ntpServer)
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				checkClockOffset(ntpServer)
			}
		}
	})

	sig := <-exitSignal
	logger.Info("exit signal received", "signal", sig)
	close(done)
	goes.Wait()
	return nil
}

func initGenesis(n *node.Node, gen *node.Genesis) error {
	initialized, err := n.Initialized()
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}
	if gen == nil {
		logger.Warn("no genesis configured, engine starts without owner")
		return nil
	}
	if err := n.Init(gen); err != nil {
		return errors.Wrap(err, "init genesis")
	}
	logger.Info("genesis applied", "owner", gen.Owner, "allocations", len(gen.Allocations))
	return nil
}
