// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timeline

import (
	"math/big"
	"strconv"
)

// Delta is a pending change to the aggregate, kept as unsigned in/out halves.
type Delta struct {
	AmountIn  *big.Int
	AmountOut *big.Int
	CountIn   uint64
	CountOut  uint64
}

func newDelta() *Delta {
	return &Delta{AmountIn: new(big.Int), AmountOut: new(big.Int)}
}

// Increase returns a delta adding amount and count.
func Increase(amount *big.Int, count uint64) *Delta {
	d := newDelta()
	d.AmountIn.Set(amount)
	d.CountIn = count
	return d
}

// Decrease returns a delta removing amount and count.
func Decrease(amount *big.Int, count uint64) *Delta {
	d := newDelta()
	d.AmountOut.Set(amount)
	d.CountOut = count
	return d
}

func (d *Delta) normalize() *Delta {
	if d.AmountIn == nil {
		d.AmountIn = new(big.Int)
	}
	if d.AmountOut == nil {
		d.AmountOut = new(big.Int)
	}
	return d
}

// IsEmpty reports whether d changes nothing.
func (d *Delta) IsEmpty() bool {
	d.normalize()
	return d.AmountIn.Sign() == 0 && d.AmountOut.Sign() == 0 && d.CountIn == 0 && d.CountOut == 0
}

// Merge adds other into d.
func (d *Delta) Merge(other *Delta) *Delta {
	d.normalize()
	other.normalize()
	d.AmountIn.Add(d.AmountIn, other.AmountIn)
	d.AmountOut.Add(d.AmountOut, other.AmountOut)
	d.CountIn += other.CountIn
	d.CountOut += other.CountOut
	return d
}

// Target selects when a delta takes effect.
type Target struct {
	deferred bool
	epoch    uint64
}

// Now applies the delta to the aggregate immediately.
func Now() Target {
	return Target{}
}

// AtEpoch applies the delta when epoch becomes current, or immediately if it already is.
func AtEpoch(epoch uint64) Target {
	return Target{deferred: true, epoch: epoch}
}

// resolve returns the epoch to stash the delta at, or false to apply it now.
func (t Target) resolve(current uint64) (uint64, bool) {
	if !t.deferred || t.epoch <= current {
		return 0, false
	}
	return t.epoch, true
}

func (t Target) String() string {
	if !t.deferred {
		return "now"
	}
	return "epoch " + strconv.FormatUint(t.epoch, 10)
}

// Totals is the aggregate of active stake.
type Totals struct {
	Amount *big.Int `json:"amount"`
	Count  uint64   `json:"count"`
}
