// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/locking/timeline"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/xenv"
)

// SetDelegationPool enables delegation for id through pool. It can only be set once.
func (l *Locking) SetDelegationPool(env *xenv.Environment, id uint64, pool seq.Address) error {
	logger.Debug("set delegation pool", "caller", env.Caller(), "id", id, "pool", pool)

	err := l.run(env, "set_delegation_pool", func() error {
		op, _, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		if err := requireActive(id, op); err != nil {
			return err
		}
		if pool.IsZero() {
			return reverts.New("zero delegation pool")
		}
		if !op.DelegationPool.IsZero() {
			return reverts.Newf("operator %d already has a delegation pool", id)
		}
		op.DelegationPool = pool
		if err := l.operators.Update(id, op); err != nil {
			return err
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventDelegationPoolSet,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     op.Signer,
			Fields:     map[string]string{"pool": pool.String()},
		})
		return nil
	})
	if err != nil {
		logger.Info("set delegation pool failed", "id", id, "error", err)
		return err
	}
	logger.Info("delegation pool set", "id", id, "pool", pool)
	return nil
}

func (l *Locking) poolOperator(env *xenv.Environment, id uint64) (*operator.Operator, error) {
	op, err := l.operators.MustGet(id)
	if err != nil {
		return nil, err
	}
	if op.DelegationPool.IsZero() || op.DelegationPool != env.Caller() {
		return nil, reverts.Newf("caller is not the delegation pool of operator %d", id)
	}
	return op, nil
}

// UpdateDelegation changes the delegated stake of id by the signed amount, called by its pool.
func (l *Locking) UpdateDelegation(env *xenv.Environment, id uint64, amount *big.Int) error {
	logger.Debug("update delegation", "caller", env.Caller(), "id", id, "amount", amount)

	err := l.run(env, "update_delegation", func() error {
		op, err := l.poolOperator(env, id)
		if err != nil {
			return err
		}
		if err := requireActive(id, op); err != nil {
			return err
		}
		if amount == nil || amount.Sign() == 0 {
			return reverts.New("zero delegation change")
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if err := l.settle(op, epoch); err != nil {
			return err
		}
		delegated := new(big.Int).Add(op.Delegated, amount)
		if delegated.Sign() < 0 {
			return reverts.Newf("delegation of operator %d would go negative", id)
		}
		delta := timeline.Increase(amount, 0)
		if amount.Sign() < 0 {
			delta = timeline.Decrease(new(big.Int).Neg(amount), 0)
		}
		if err := l.timeline.Apply(timeline.Now(), delta); err != nil {
			return err
		}
		op.Delegated = delegated
		if err := l.operators.Update(id, op); err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventDelegationUpdated,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     op.Signer,
			Amount:     new(big.Int).Set(amount),
			Total:      new(big.Int).Set(delegated),
		})
		return nil
	})
	if err != nil {
		logger.Info("update delegation failed", "id", id, "error", err)
		return err
	}
	logger.Info("delegation updated", "id", id)
	return nil
}

// ClaimDelegatorRewards pays the delegators' accrual of id to its pool, in any state.
func (l *Locking) ClaimDelegatorRewards(env *xenv.Environment, id uint64) (*big.Int, error) {
	logger.Debug("claim delegator rewards", "caller", env.Caller(), "id", id)

	var paid *big.Int
	err := l.run(env, "claim_delegator_rewards", func() error {
		op, err := l.poolOperator(env, id)
		if err != nil {
			return err
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if err := l.settle(op, epoch); err != nil {
			return err
		}
		if paid, err = l.payoutDelegators(op); err != nil {
			return err
		}
		if paid.Sign() == 0 {
			return reverts.New("no delegator rewards to claim")
		}
		if err := l.operators.Update(id, op); err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventDelegatorRewardsClaimed,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     op.Signer,
			Amount:     paid,
		})
		return nil
	})
	if err != nil {
		logger.Info("claim delegator rewards failed", "id", id, "error", err)
		return nil, err
	}
	logger.Info("delegator rewards claimed", "id", id, "amount", paid)
	return paid, nil
}
