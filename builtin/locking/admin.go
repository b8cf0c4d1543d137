// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/xenv"
)

// SetTrustedSubmitter sets the address batches must be signed by.
func (l *Locking) SetTrustedSubmitter(env *xenv.Environment, submitter seq.Address) error {
	logger.Debug("set trusted submitter", "caller", env.Caller(), "submitter", submitter)

	err := l.run(env, "set_trusted_submitter", func() error {
		if err := l.requirePrivileged(env.Caller()); err != nil {
			return err
		}
		if submitter.IsZero() {
			return reverts.New("zero submitter")
		}
		l.submitter.Set(submitter)
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		l.emit(&Event{Name: EventTrustedSubmitterSet, Epoch: epoch, Signer: submitter})
		return nil
	})
	if err != nil {
		logger.Info("set trusted submitter failed", "error", err)
		return err
	}
	logger.Info("trusted submitter set", "submitter", submitter)
	return nil
}

// SetRewardRate sets the reward paid per performance unit.
func (l *Locking) SetRewardRate(env *xenv.Environment, rate *big.Int) error {
	logger.Debug("set reward rate", "caller", env.Caller(), "rate", rate)

	err := l.run(env, "set_reward_rate", func() error {
		if err := l.requirePrivileged(env.Caller()); err != nil {
			return err
		}
		if rate == nil || rate.Sign() < 0 || rate.BitLen() > 256 {
			return reverts.New("invalid reward rate")
		}
		l.index.SetRate(rate)
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		l.emit(&Event{Name: EventRewardRateSet, Epoch: epoch, Amount: new(big.Int).Set(rate)})
		return nil
	})
	if err != nil {
		logger.Info("set reward rate failed", "error", err)
		return err
	}
	logger.Info("reward rate set", "rate", rate)
	return nil
}
