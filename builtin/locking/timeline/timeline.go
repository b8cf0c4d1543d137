// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package timeline reconciles the stake aggregate across epoch boundaries.
package timeline

import (
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
)

var (
	slotEpoch         = seq.BytesToBytes32([]byte("timeline-epoch"))
	slotTotalAmount   = seq.BytesToBytes32([]byte("timeline-total-amount"))
	slotTotalCount    = seq.BytesToBytes32([]byte("timeline-total-count"))
	slotPending       = seq.BytesToBytes32([]byte("timeline-pending"))
	slotExitsInFlight = seq.BytesToBytes32([]byte("timeline-exits-in-flight"))
)

// Timeline owns the current epoch, the aggregate and the pending deltas.
type Timeline struct {
	epoch         *solidity.Uint64
	totalAmount   *solidity.Uint256
	totalCount    *solidity.Uint64
	pending       *solidity.Mapping[seq.Uint64Key, *Delta]
	exitsInFlight *solidity.Uint64
}

func New(sctx *solidity.Context) *Timeline {
	return &Timeline{
		epoch:         solidity.NewUint64(sctx, slotEpoch),
		totalAmount:   solidity.NewUint256(sctx, slotTotalAmount),
		totalCount:    solidity.NewUint64(sctx, slotTotalCount),
		pending:       solidity.NewMapping[seq.Uint64Key, *Delta](sctx, slotPending),
		exitsInFlight: solidity.NewUint64(sctx, slotExitsInFlight),
	}
}

// Current returns the current epoch.
func (t *Timeline) Current() (uint64, error) {
	return t.epoch.Get()
}

// Totals returns the aggregate.
func (t *Timeline) Totals() (*Totals, error) {
	amount, err := t.totalAmount.Get()
	if err != nil {
		return nil, err
	}
	count, err := t.totalCount.Get()
	if err != nil {
		return nil, err
	}
	return &Totals{Amount: amount, Count: count}, nil
}

// Pending returns the delta stashed at epoch.
func (t *Timeline) Pending(epoch uint64) (*Delta, error) {
	d, err := t.pending.Get(seq.Uint64Key(epoch))
	if err != nil {
		return nil, err
	}
	return d.normalize(), nil
}

// ExitsInFlight returns the operator count still waiting in pending deltas to leave the aggregate.
func (t *Timeline) ExitsInFlight() (uint64, error) {
	return t.exitsInFlight.Get()
}

// Apply resolves target against the current epoch, then folds or stashes delta.
func (t *Timeline) Apply(target Target, delta *Delta) error {
	if delta.IsEmpty() {
		return nil
	}
	current, err := t.epoch.Get()
	if err != nil {
		return err
	}
	epoch, deferred := target.resolve(current)
	if !deferred {
		return t.fold(delta)
	}

	pending, err := t.Pending(epoch)
	if err != nil {
		return err
	}
	if err := t.pending.Set(seq.Uint64Key(epoch), pending.Merge(delta)); err != nil {
		return errors.Wrap(err, "failed to stash delta")
	}
	if delta.CountOut > 0 {
		if _, err := t.exitsInFlight.Increment(delta.CountOut); err != nil {
			return err
		}
	}
	return nil
}

// Finalize folds the delta of the next epoch exactly once, clears it and advances the epoch.
// It returns the new current epoch and the folded delta.
func (t *Timeline) Finalize() (uint64, *Delta, error) {
	current, err := t.epoch.Get()
	if err != nil {
		return 0, nil, err
	}
	next := current + 1

	delta, err := t.Pending(next)
	if err != nil {
		return 0, nil, err
	}
	if err := t.fold(delta); err != nil {
		return 0, nil, err
	}
	t.pending.Delete(seq.Uint64Key(next))
	if delta.CountOut > 0 {
		if _, err := t.exitsInFlight.Decrement(delta.CountOut); err != nil {
			return 0, nil, err
		}
	}
	t.epoch.Set(next)
	return next, delta, nil
}

func (t *Timeline) fold(delta *Delta) error {
	delta.normalize()
	if err := t.totalAmount.Add(delta.AmountIn); err != nil {
		return err
	}
	if err := t.totalAmount.Sub(delta.AmountOut); err != nil {
		return errors.Wrap(err, "aggregate amount")
	}
	count, err := t.totalCount.Get()
	if err != nil {
		return err
	}
	count += delta.CountIn
	if count < delta.CountOut {
		return errors.New("aggregate count underflow")
	}
	t.totalCount.Set(count - delta.CountOut)
	return nil
}
