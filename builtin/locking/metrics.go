// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/metrics"
)

var (
	metricOperations      = metrics.LazyLoadCounterVec("locking_operations_count", []string{"op", "result"})
	metricEpoch           = metrics.LazyLoadGauge("locking_epoch")
	metricActiveOperators = metrics.LazyLoadGauge("locking_active_operators")
	metricBatchEntries    = metrics.LazyLoadHistogram("locking_batch_entries", metrics.BucketBatchEntries)
)

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case reverts.IsRevertErr(err):
		return "reverted"
	default:
		return "failed"
	}
}
