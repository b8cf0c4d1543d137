// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache provides the caches in front of signature recovery and state reads.
package cache

import "sync/atomic"

// Stats counts lookups of a cache. Safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	// hit rate in permille at the last Changed call
	reported atomic.Int32
}

// Hit records a hit and returns the hit count.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss and returns the miss count.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Counts returns the hits and misses so far.
func (cs *Stats) Counts() (hit, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}

// HitRate is hits over lookups, zero before the first lookup.
func (cs *Stats) HitRate() float64 {
	hit, miss := cs.Counts()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}

// Changed reports whether the hit rate moved by at least 0.1% since the previous call.
func (cs *Stats) Changed() bool {
	permille := int32(cs.HitRate() * 1000)
	return cs.reported.Swap(permille) != permille
}
