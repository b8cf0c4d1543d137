// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package locking is the stake and reward accounting engine of the sequencer set.
package locking

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/builtin/locking/timeline"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/log"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
	"github.com/vechain/seqlock/xenv"
)

var logger = log.WithContext("pkg", "locking")

func SetLogger(l log.Logger) {
	logger = l
}

var (
	slotSubmitter        = seq.BytesToBytes32([]byte("locking-trusted-submitter"))
	slotLastWindowEnd    = seq.BytesToBytes32([]byte("locking-last-window-end"))
	slotLockedCollateral = seq.BytesToBytes32([]byte("locking-locked-collateral"))
)

// TokenCustody moves the collateral and reward token.
type TokenCustody interface {
	TransferFrom(payer, to seq.Address, amount *big.Int) error
	Transfer(from, to seq.Address, amount *big.Int) error
	BalanceOf(addr seq.Address) (*big.Int, error)
}

// Certificates identifies the controlling party of an operator id.
type Certificates interface {
	Mint(owner seq.Address, id uint64) error
	Burn(id uint64) error
	OwnerOf(id uint64) (seq.Address, error)
	TransferFrom(from, to seq.Address, id uint64) error
}

// Authority supplies the access predicates.
type Authority interface {
	IsPrivileged(addr seq.Address) (bool, error)
	IsAllowed(addr seq.Address) (bool, error)
}

// Locking implements the operator lifecycle and reward accounting over a journaled state.
type Locking struct {
	params Params
	state  *state.State

	custody TokenCustody
	certs   Certificates
	auth    Authority

	operators *operator.Service
	timeline  *timeline.Timeline
	index     *reward.Index
	verifier  *batch.Verifier

	submitter        *solidity.Address
	lastWindowEnd    *solidity.Uint64
	lockedCollateral *solidity.Uint256

	now    uint64
	events []*Event
}

// New create a new instance. A nil verifier gets a private one.
func New(
	params Params,
	st *state.State,
	custody TokenCustody,
	certs Certificates,
	auth Authority,
	verifier *batch.Verifier,
) (*Locking, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if verifier == nil {
		v, err := batch.NewVerifier(params.SignerCacheSize)
		if err != nil {
			return nil, err
		}
		verifier = v
	}
	sctx := solidity.NewContext(params.Address, st)
	return &Locking{
		params:  params,
		state:   st,
		custody: custody,
		certs:   certs,
		auth:    auth,

		operators: operator.New(sctx),
		timeline:  timeline.New(sctx),
		index:     reward.New(sctx),
		verifier:  verifier,

		submitter:        solidity.NewAddress(sctx, slotSubmitter),
		lastWindowEnd:    solidity.NewUint64(sctx, slotLastWindowEnd),
		lockedCollateral: solidity.NewUint256(sctx, slotLockedCollateral),
	}, nil
}

// Params returns the deployment profile.
func (l *Locking) Params() Params {
	return l.params
}

// run executes fn atomically: any error reverts every state write and event of the call.
func (l *Locking) run(env *xenv.Environment, op string, fn func() error) error {
	checkpoint := l.state.NewCheckpoint()
	n := len(l.events)
	l.now = env.Time()

	err := fn()
	if err != nil {
		l.state.RevertTo(checkpoint)
		l.events = l.events[:n]
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result(err)})
	return err
}

func (l *Locking) controller(id uint64) (seq.Address, error) {
	return l.certs.OwnerOf(id)
}

// controlled loads id and checks the caller controls it.
func (l *Locking) controlled(env *xenv.Environment, id uint64) (*operator.Operator, seq.Address, error) {
	op, err := l.operators.MustGet(id)
	if err != nil {
		return nil, seq.Address{}, err
	}
	owner, err := l.controller(id)
	if err != nil {
		return nil, seq.Address{}, err
	}
	if owner != env.Caller() {
		return nil, seq.Address{}, reverts.Newf("caller is not the controller of operator %d", id)
	}
	return op, owner, nil
}

func (l *Locking) requirePrivileged(caller seq.Address) error {
	ok, err := l.auth.IsPrivileged(caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.New("privileged caller required")
	}
	return nil
}

func requireActive(id uint64, op *operator.Operator) error {
	if op.Status != operator.StatusActive || op.DeactivationEpoch != 0 {
		return reverts.Newf("operator %d is not active", id)
	}
	return nil
}

func (l *Locking) updateGauges() {
	if n, err := l.operators.ActiveCount(); err == nil {
		metricActiveOperators().Set(int64(n))
	}
}

//
// Getters
//

// Operator returns the record of id.
func (l *Locking) Operator(id uint64) (*operator.Operator, error) {
	return l.operators.MustGet(id)
}

// Controller returns the controlling party of id.
func (l *Locking) Controller(id uint64) (seq.Address, error) {
	if _, err := l.operators.MustGet(id); err != nil {
		return seq.Address{}, err
	}
	return l.controller(id)
}

// OperatorBySigner resolves a signing key, bound or reserved, to its operator.
func (l *Locking) OperatorBySigner(signer seq.Address) (uint64, *operator.SignerEntry, error) {
	entry, err := l.operators.LookupSigner(signer)
	if err != nil {
		return 0, nil, err
	}
	if entry.State == operator.KeyNone {
		return 0, nil, reverts.Newf("signer %v not found", signer)
	}
	return entry.OperatorID, entry, nil
}

// Signers returns the active signing keys in registry order.
func (l *Locking) Signers() ([]seq.Address, error) {
	return l.operators.Signers()
}

// LastOperatorID returns the highest id allocated so far.
func (l *Locking) LastOperatorID() (uint64, error) {
	return l.operators.LastID()
}

// Totals returns the stake aggregate.
func (l *Locking) Totals() (*timeline.Totals, error) {
	return l.timeline.Totals()
}

// Epoch returns the current epoch.
func (l *Locking) Epoch() (uint64, error) {
	return l.timeline.Current()
}

// PendingDelta returns the aggregate change stashed for epoch.
func (l *Locking) PendingDelta(epoch uint64) (*timeline.Delta, error) {
	return l.timeline.Pending(epoch)
}

// ExitsInFlight returns the voluntary exits not folded yet.
func (l *Locking) ExitsInFlight() (uint64, error) {
	return l.timeline.ExitsInFlight()
}

// RewardIndex returns the global reward index.
func (l *Locking) RewardIndex() (*big.Int, error) {
	return l.index.Value()
}

// RewardRate returns the reward per performance unit.
func (l *Locking) RewardRate() (*big.Int, error) {
	return l.index.Rate()
}

// LockedCollateral returns the self stake held by the engine.
func (l *Locking) LockedCollateral() (*big.Int, error) {
	return l.lockedCollateral.Get()
}

// TotalRewardsLiquidated returns all rewards paid out or folded into stake.
func (l *Locking) TotalRewardsLiquidated() (*big.Int, error) {
	return l.index.Liquidated()
}

// TrustedSubmitter returns the address batches must be signed by.
func (l *Locking) TrustedSubmitter() (seq.Address, error) {
	return l.submitter.Get()
}

// LastWindowEnd returns the end of the last accepted measurement window.
func (l *Locking) LastWindowEnd() (uint64, error) {
	return l.lastWindowEnd.Get()
}

// PendingReward previews what a settlement of id would credit, without writing.
func (l *Locking) PendingReward(id uint64) (*reward.Split, error) {
	op, err := l.operators.MustGet(id)
	if err != nil {
		return nil, err
	}
	current, err := l.timeline.Current()
	if err != nil {
		return nil, err
	}
	if err := l.settle(op, current); err != nil {
		return nil, err
	}
	return &reward.Split{Operator: op.Accrued.Owed(), Delegators: op.DelegatorsAccrued.Owed()}, nil
}

// IsEligible reports whether id may receive rewards for epoch.
func (l *Locking) IsEligible(id uint64, epoch uint64) (bool, error) {
	op, err := l.operators.MustGet(id)
	if err != nil {
		return false, err
	}
	return l.eligible(op, epoch), nil
}
