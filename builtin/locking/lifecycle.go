// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/builtin/locking/timeline"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/xenv"
)

// deriveSigner parses a 65 byte uncompressed or 33 byte compressed secp256k1 key.
func deriveSigner(pubkey []byte) (seq.Address, []byte, error) {
	var (
		pub *ecdsa.PublicKey
		err error
	)
	switch len(pubkey) {
	case 65:
		pub, err = crypto.UnmarshalPubkey(pubkey)
	case 33:
		pub, err = crypto.DecompressPubkey(pubkey)
	default:
		return seq.Address{}, nil, reverts.Newf("invalid public key length %d", len(pubkey))
	}
	if err != nil {
		return seq.Address{}, nil, reverts.Newf("invalid public key: %v", err)
	}
	return seq.Address(crypto.PubkeyToAddress(*pub)), crypto.FromECDSAPub(pub), nil
}

// Join locks amount for a new operator signing with pubkey and returns its id.
func (l *Locking) Join(env *xenv.Environment, identity seq.Address, amount *big.Int, pubkey []byte) (uint64, error) {
	logger.Debug("join", "caller", env.Caller(), "identity", identity, "amount", amount)

	var id uint64
	err := l.run(env, "join", func() error {
		caller := env.Caller()
		allowed, err := l.auth.IsAllowed(caller)
		if err != nil {
			return err
		}
		if !allowed {
			return reverts.Newf("caller %v is not allowed", caller)
		}
		count, err := l.operators.ActiveCount()
		if err != nil {
			return err
		}
		if count >= l.params.MaxOperators {
			return reverts.Newf("operator limit %d reached", l.params.MaxOperators)
		}
		if amount == nil || amount.Cmp(l.params.MinLock) < 0 || amount.Cmp(l.params.MaxLock) > 0 {
			return reverts.Newf("amount %v outside [%v, %v]", amount, l.params.MinLock, l.params.MaxLock)
		}
		signer, pub, err := deriveSigner(pubkey)
		if err != nil {
			return err
		}
		if signer != identity {
			return reverts.Newf("identity %v does not match signer %v", identity, signer)
		}

		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		index, err := l.index.Value()
		if err != nil {
			return err
		}
		if id, _, err = l.operators.Add(signer, pub, amount, epoch, index); err != nil {
			return err
		}
		if err := l.certs.Mint(caller, id); err != nil {
			return err
		}
		if err := l.timeline.Apply(timeline.Now(), timeline.Increase(amount, 1)); err != nil {
			return err
		}
		if err := l.custody.TransferFrom(caller, l.params.Address, amount); err != nil {
			return err
		}
		if err := l.lockedCollateral.Add(amount); err != nil {
			return err
		}
		totals, err := l.timeline.Totals()
		if err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventLocked,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     signer,
			Amount:     new(big.Int).Set(amount),
			Total:      totals.Amount,
			Fields:     map[string]string{"pubkey": "0x" + hex.EncodeToString(pub)},
		})
		return nil
	})
	if err != nil {
		logger.Info("join failed", "identity", identity, "error", err)
		return 0, err
	}
	l.updateGauges()
	logger.Info("joined", "id", id, "signer", identity)
	return id, nil
}

// Relock adds extra collateral, and optionally the accrued reward, to an active operator.
func (l *Locking) Relock(env *xenv.Environment, id uint64, extra *big.Int, lockRewards bool) error {
	logger.Debug("relock", "caller", env.Caller(), "id", id, "extra", extra, "lockRewards", lockRewards)

	err := l.run(env, "relock", func() error {
		op, _, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		if err := requireActive(id, op); err != nil {
			return err
		}
		if extra == nil {
			extra = new(big.Int)
		}
		if extra.Sign() < 0 {
			return reverts.New("negative relock amount")
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if err := l.settle(op, epoch); err != nil {
			return err
		}

		increase := new(big.Int).Set(extra)
		folded := new(big.Int)
		if lockRewards {
			folded = op.Accrued.Owed()
			op.Accrued = reward.Zeroed()
		}
		increase.Add(increase, folded)
		if increase.Sign() == 0 {
			return reverts.New("nothing to relock")
		}
		locked := new(big.Int).Add(op.Locked, increase)
		if locked.Cmp(l.params.MaxLock) > 0 {
			return reverts.Newf("stake %v above max lock %v", locked, l.params.MaxLock)
		}
		op.Locked = locked

		if err := l.timeline.Apply(timeline.Now(), timeline.Increase(increase, 0)); err != nil {
			return err
		}
		if extra.Sign() > 0 {
			if err := l.custody.TransferFrom(env.Caller(), l.params.Address, extra); err != nil {
				return err
			}
		}
		if folded.Sign() > 0 {
			if err := l.index.AddLiquidated(folded); err != nil {
				return err
			}
		}
		if err := l.lockedCollateral.Add(increase); err != nil {
			return err
		}
		if err := l.operators.Update(id, op); err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventRelocked,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     op.Signer,
			Amount:     increase,
			Total:      new(big.Int).Set(locked),
			Fields:     map[string]string{"rewards": folded.String()},
		})
		return nil
	})
	if err != nil {
		logger.Info("relock failed", "id", id, "error", err)
		return err
	}
	logger.Info("relocked", "id", id)
	return nil
}

// Unlock requests a voluntary exit taking effect after the notice epoch.
func (l *Locking) Unlock(env *xenv.Environment, id uint64) error {
	logger.Debug("unlock", "caller", env.Caller(), "id", id)

	err := l.run(env, "unlock", func() error {
		_, owner, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		return l.exit(env, id, owner, false)
	})
	if err != nil {
		logger.Info("unlock failed", "id", id, "error", err)
		return err
	}
	l.updateGauges()
	logger.Info("unlock requested", "id", id)
	return nil
}

// ForceUnlock exits id in the current epoch, by a privileged caller.
func (l *Locking) ForceUnlock(env *xenv.Environment, id uint64) error {
	logger.Debug("force unlock", "caller", env.Caller(), "id", id)

	err := l.run(env, "force_unlock", func() error {
		if err := l.requirePrivileged(env.Caller()); err != nil {
			return err
		}
		owner, err := l.Controller(id)
		if err != nil {
			return err
		}
		return l.exit(env, id, owner, true)
	})
	if err != nil {
		logger.Info("force unlock failed", "id", id, "error", err)
		return err
	}
	l.updateGauges()
	logger.Info("force unlocked", "id", id)
	return nil
}

func (l *Locking) exit(env *xenv.Environment, id uint64, owner seq.Address, forced bool) error {
	op, err := l.operators.MustGet(id)
	if err != nil {
		return err
	}
	if err := requireActive(id, op); err != nil {
		return err
	}
	current, err := l.timeline.Current()
	if err != nil {
		return err
	}

	exitEpoch := current
	if !forced {
		exitEpoch = current + seq.NoticeEpochs
		inFlight, err := l.timeline.ExitsInFlight()
		if err != nil {
			return err
		}
		totals, err := l.timeline.Totals()
		if err != nil {
			return err
		}
		if (inFlight+1)*3 > totals.Count {
			return reverts.Newf("exit limit reached: %d exits in flight of %d operators", inFlight, totals.Count)
		}
	}

	if err := l.settle(op, current); err != nil {
		return err
	}
	paid, err := l.payout(op, owner)
	if err != nil {
		return err
	}
	combined := op.Combined()
	if err := l.operators.Deactivate(id, op, exitEpoch, env.Time(), l.params.WithdrawalDelay); err != nil {
		return err
	}
	if err := l.timeline.Apply(timeline.AtEpoch(exitEpoch), timeline.Decrease(combined, 1)); err != nil {
		return err
	}
	l.emit(&Event{
		Name:       EventUnlockRequested,
		Epoch:      exitEpoch,
		OperatorID: id,
		Signer:     op.Signer,
		Amount:     combined,
		Total:      paid,
		Fields: map[string]string{
			"forced":         strconv.FormatBool(forced),
			"claimableAfter": strconv.FormatUint(op.ClaimableAfter, 10),
		},
	})
	return nil
}

// UnlockClaim releases the collateral of an exited operator once the withdrawal delay passed
// and its exit epoch has been finalized.
func (l *Locking) UnlockClaim(env *xenv.Environment, id uint64) error {
	logger.Debug("unlock claim", "caller", env.Caller(), "id", id)

	var released *big.Int
	err := l.run(env, "unlock_claim", func() error {
		op, owner, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		if op.Status != operator.StatusExiting || op.DeactivationEpoch == 0 {
			return reverts.Newf("operator %d is not exiting", id)
		}
		if env.Time() < op.ClaimableAfter {
			return reverts.Newf("operator %d claimable after %d", id, op.ClaimableAfter)
		}
		current, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if current < op.DeactivationEpoch {
			return reverts.Newf("operator %d leaves the aggregate at epoch %d, current %d", id, op.DeactivationEpoch, current)
		}
		if err := l.settle(op, current); err != nil {
			return err
		}
		paid, err := l.payout(op, owner)
		if err != nil {
			return err
		}

		released = new(big.Int).Set(op.Locked)
		signer := op.Signer
		if err := l.lockedCollateral.Sub(released); err != nil {
			return err
		}
		if err := l.custody.Transfer(l.params.Address, owner, released); err != nil {
			return err
		}
		if err := l.operators.Release(id, op); err != nil {
			return err
		}
		if err := l.certs.Burn(id); err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventUnlocked,
			Epoch:      current,
			OperatorID: id,
			Signer:     signer,
			Amount:     released,
			Total:      paid,
		})
		return nil
	})
	if err != nil {
		logger.Info("unlock claim failed", "id", id, "error", err)
		return err
	}
	logger.Info("unlock claimed", "id", id, "amount", released)
	return nil
}

// WithdrawRewards pays the settled operator accrual of id to its controller.
func (l *Locking) WithdrawRewards(env *xenv.Environment, id uint64) (*big.Int, error) {
	logger.Debug("withdraw rewards", "caller", env.Caller(), "id", id)

	var paid *big.Int
	err := l.run(env, "withdraw_rewards", func() error {
		op, owner, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		current, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if err := l.settle(op, current); err != nil {
			return err
		}
		if paid, err = l.payout(op, owner); err != nil {
			return err
		}
		if paid.Sign() == 0 {
			return reverts.New("no rewards to withdraw")
		}
		if err := l.operators.Update(id, op); err != nil {
			return err
		}
		liquidated, err := l.index.Liquidated()
		if err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventRewardsWithdrawn,
			Epoch:      current,
			OperatorID: id,
			Signer:     op.Signer,
			Amount:     paid,
			Total:      liquidated,
		})
		return nil
	})
	if err != nil {
		logger.Info("withdraw rewards failed", "id", id, "error", err)
		return nil, err
	}
	logger.Info("rewards withdrawn", "id", id, "amount", paid)
	return paid, nil
}

// UpdateSigner rotates the signing key of an active operator.
func (l *Locking) UpdateSigner(env *xenv.Environment, id uint64, pubkey []byte) error {
	logger.Debug("update signer", "caller", env.Caller(), "id", id)

	err := l.run(env, "update_signer", func() error {
		op, _, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		if err := requireActive(id, op); err != nil {
			return err
		}
		signer, pub, err := deriveSigner(pubkey)
		if err != nil {
			return err
		}
		old := op.Signer
		if err := l.operators.Rotate(id, op, signer, pub); err != nil {
			return err
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventSignerUpdated,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     signer,
			Fields:     map[string]string{"previous": old.String()},
		})
		return nil
	})
	if err != nil {
		logger.Info("update signer failed", "id", id, "error", err)
		return err
	}
	logger.Info("signer updated", "id", id)
	return nil
}

// SetCommission sets the cut id takes from its delegators' rewards.
func (l *Locking) SetCommission(env *xenv.Environment, id uint64, bps uint32) error {
	logger.Debug("set commission", "caller", env.Caller(), "id", id, "bps", bps)

	err := l.run(env, "set_commission", func() error {
		op, _, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		if err := requireActive(id, op); err != nil {
			return err
		}
		if bps > l.params.MaxCommissionBps {
			return reverts.Newf("commission %d above %d bps", bps, l.params.MaxCommissionBps)
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		if err := l.settle(op, epoch); err != nil {
			return err
		}
		op.CommissionBps = bps
		if err := l.operators.Update(id, op); err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventCommissionUpdated,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     op.Signer,
			Fields:     map[string]string{"bps": strconv.FormatUint(uint64(bps), 10)},
		})
		return nil
	})
	if err != nil {
		logger.Info("set commission failed", "id", id, "error", err)
		return err
	}
	logger.Info("commission updated", "id", id, "bps", bps)
	return nil
}

// TransferOperator hands control of id to another address.
func (l *Locking) TransferOperator(env *xenv.Environment, id uint64, to seq.Address) error {
	logger.Debug("transfer operator", "caller", env.Caller(), "id", id, "to", to)

	err := l.run(env, "transfer_operator", func() error {
		op, owner, err := l.controlled(env, id)
		if err != nil {
			return err
		}
		if err := l.certs.TransferFrom(owner, to, id); err != nil {
			return err
		}
		epoch, err := l.timeline.Current()
		if err != nil {
			return err
		}
		l.emit(&Event{
			Name:       EventOperatorTransferred,
			Epoch:      epoch,
			OperatorID: id,
			Signer:     op.Signer,
			Fields:     map[string]string{"from": owner.String(), "to": to.String()},
		})
		return nil
	})
	if err != nil {
		logger.Info("transfer operator failed", "id", id, "error", err)
		return err
	}
	logger.Info("operator transferred", "id", id, "to", to)
	return nil
}
