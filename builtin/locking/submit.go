// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"
	"strconv"

	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/xenv"
)

// SubmitBatch applies a signed reward batch and advances the epoch. It returns the new epoch.
// Any invalid entry rejects the whole batch.
func (l *Locking) SubmitBatch(env *xenv.Environment, s *batch.Submission) (uint64, error) {
	logger.Debug("submit batch", "caller", env.Caller(), "epoch", s.Epoch, "entries", s.Len())

	var epoch uint64
	err := l.run(env, "submit_batch", func() error {
		if err := s.CheckShape(); err != nil {
			return err
		}
		current, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if s.Epoch != current+1 {
			return reverts.Newf("batch epoch %d is not the next epoch %d", s.Epoch, current+1)
		}
		last, err := l.lastWindowEnd.Get()
		if err != nil {
			return err
		}
		if s.WindowStart < last {
			return reverts.Newf("window start %d before last window end %d", s.WindowStart, last)
		}
		if s.WindowStart >= s.WindowEnd {
			return reverts.Newf("empty window [%d, %d)", s.WindowStart, s.WindowEnd)
		}
		submitter, err := l.submitter.Get()
		if err != nil {
			return err
		}
		if err := l.verifier.Verify(s, l.params.ChainID, l.params.Address, submitter); err != nil {
			return err
		}

		rate, err := l.index.Rate()
		if err != nil {
			return err
		}
		total := new(big.Int)
		for i, signer := range s.Signers {
			entry, err := l.operators.LookupSigner(signer)
			if err != nil {
				return err
			}
			if entry.State != operator.KeyBound {
				return reverts.Newf("batch entry %d: unknown signer %v", i, signer)
			}
			op, err := l.operators.GetOperator(entry.OperatorID)
			if err != nil {
				return err
			}
			if !l.eligible(op, s.Epoch) {
				return reverts.Newf("batch entry %d: operator %d not eligible for epoch %d", i, entry.OperatorID, s.Epoch)
			}
			amount, err := reward.FlatReward(s.Units[i], rate)
			if err != nil {
				return err
			}
			total.Add(total, amount)
			if l.params.Policy == reward.Flat && amount.Sign() > 0 {
				op.Accrued = op.Accrued.Add(amount)
				if err := l.operators.Update(entry.OperatorID, op); err != nil {
					return err
				}
			}
		}

		totals, err := l.timeline.Totals()
		if err != nil {
			return err
		}
		if l.params.Policy == reward.ProRata {
			aggregate := totals.Amount
			if l.params.Cutoff == reward.CutoffAtDeactivation {
				// stake exiting at this epoch is still aggregated but no longer accrues
				exiting, err := l.timeline.Pending(s.Epoch)
				if err != nil {
					return err
				}
				aggregate = new(big.Int).Sub(totals.Amount, exiting.AmountOut)
			}
			if _, err := l.index.Distribute(total, aggregate); err != nil {
				return err
			}
		}
		if total.Sign() > 0 {
			if err := l.custody.TransferFrom(s.Payer, l.params.Address, total); err != nil {
				return err
			}
		}
		l.lastWindowEnd.Set(s.WindowEnd)

		newEpoch, folded, err := l.timeline.Finalize()
		if err != nil {
			return err
		}
		if err := l.index.Record(newEpoch); err != nil {
			return err
		}
		epoch = newEpoch
		totals, err = l.timeline.Totals()
		if err != nil {
			return err
		}
		l.emit(&Event{
			Name:   EventBatchSubmitted,
			Epoch:  epoch,
			Signer: s.Payer,
			Amount: total,
			Total:  totals.Amount,
			Fields: map[string]string{
				"entries":     strconv.Itoa(s.Len()),
				"windowStart": strconv.FormatUint(s.WindowStart, 10),
				"windowEnd":   strconv.FormatUint(s.WindowEnd, 10),
				"folded":      strconv.FormatBool(!folded.IsEmpty()),
			},
		})
		return nil
	})
	if err != nil {
		logger.Info("submit batch failed", "epoch", s.Epoch, "error", err)
		return 0, err
	}
	metricEpoch().Set(int64(epoch))
	metricBatchEntries().Observe(int64(s.Len()))
	l.updateGauges()
	logger.Info("batch submitted", "epoch", epoch, "entries", s.Len())
	return epoch, nil
}
