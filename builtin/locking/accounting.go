// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/seq"
)

// eligible reports whether op accrues rewards for epoch.
func (l *Locking) eligible(op *operator.Operator, epoch uint64) bool {
	switch op.Status {
	case operator.StatusActive:
		return true
	case operator.StatusExiting:
		return !l.params.Cutoff.Excludes(epoch, op.DeactivationEpoch)
	default:
		return false
	}
}

// lastEligible returns the last epoch an exiting operator accrues for.
func (l *Locking) lastEligible(op *operator.Operator) (uint64, bool) {
	if l.params.Cutoff == reward.CutoffAtDeactivation {
		if op.DeactivationEpoch == 0 {
			return 0, false
		}
		return op.DeactivationEpoch - 1, true
	}
	return op.DeactivationEpoch, true
}

// settle credits op with what its stake earned since its checkpoint, in memory only.
// Past the cutoff the index is capped at its value at the last eligible epoch, so
// exited stake stops accruing and later calls credit nothing.
func (l *Locking) settle(op *operator.Operator, current uint64) error {
	if l.params.Policy != reward.ProRata || op.Status == operator.StatusUnlocked {
		return nil
	}

	index, err := l.index.Value()
	if err != nil {
		return err
	}
	if !l.eligible(op, current) {
		last, ok := l.lastEligible(op)
		if !ok {
			return nil
		}
		if index, err = l.index.At(last); err != nil {
			return err
		}
	}
	checkpoint := op.Checkpoint
	if checkpoint == nil {
		checkpoint = new(big.Int)
	}
	if index.Cmp(checkpoint) <= 0 {
		return nil
	}

	split, err := reward.Settle(index, checkpoint, op.Stake())
	if err != nil {
		return err
	}
	op.Accrued = op.Accrued.Add(split.Operator)
	op.DelegatorsAccrued = op.DelegatorsAccrued.Add(split.Delegators)
	op.Checkpoint = index
	return nil
}

// payout sends the operator accrual of op to recipient and returns the amount.
func (l *Locking) payout(op *operator.Operator, recipient seq.Address) (*big.Int, error) {
	owed := op.Accrued.Owed()
	op.Accrued = reward.Zeroed()
	if owed.Sign() == 0 {
		return owed, nil
	}
	if err := l.custody.Transfer(l.params.Address, recipient, owed); err != nil {
		return nil, err
	}
	if err := l.index.AddLiquidated(owed); err != nil {
		return nil, err
	}
	return owed, nil
}

func (l *Locking) payoutDelegators(op *operator.Operator) (*big.Int, error) {
	owed := op.DelegatorsAccrued.Owed()
	op.DelegatorsAccrued = reward.Zeroed()
	if owed.Sign() == 0 {
		return owed, nil
	}
	if err := l.custody.Transfer(l.params.Address, op.DelegationPool, owed); err != nil {
		return nil, err
	}
	if err := l.index.AddLiquidated(owed); err != nil {
		return nil, err
	}
	return owed, nil
}
