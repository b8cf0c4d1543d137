// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/vechain/seqlock/metrics"

var (
	metricCommits = metrics.LazyLoadCounter("node_commits_count")
	metricCalls   = metrics.LazyLoadCounterVec("node_signed_calls_count", []string{"method", "result"})
	metricReads   = metrics.LazyLoadGaugeVec("node_read_cache", []string{"result"})
)
