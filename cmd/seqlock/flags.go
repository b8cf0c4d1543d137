// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the state and event databases",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the YAML deployment profile and genesis",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8770",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0 crit .. 5 trace)",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: "terminal",
		Usage: "log output format (terminal|json|logfmt)",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 1024,
		Usage: "megabytes of ram allocated to the state database",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Usage: "admin service listening address, disabled when empty",
	}
	maxBatchLagFlag = cli.DurationFlag{
		Name:  "max-batch-lag",
		Usage: "admin health fails when no batch settled for this long, disabled when zero",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the local clock, disabled when empty",
	}

	// overrides of the config file
	minLockFlag = cli.StringFlag{
		Name:  "min-lock",
		Usage: "minimum collateral of an operator",
	}
	maxLockFlag = cli.StringFlag{
		Name:  "max-lock",
		Usage: "maximum collateral of an operator",
	}
	maxOperatorsFlag = cli.Uint64Flag{
		Name:  "max-operators",
		Usage: "maximum number of active operators",
	}
	withdrawalDelayFlag = cli.DurationFlag{
		Name:  "withdrawal-delay",
		Usage: "delay between an unlock request and the claim",
	}
	policyFlag = cli.StringFlag{
		Name:  "reward-policy",
		Usage: "reward split policy (flat|prorata)",
	}
	cutoffFlag = cli.StringFlag{
		Name:  "reward-cutoff",
		Usage: "last rewarded epoch of an exiting operator (after|at)",
	}
)
