// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/seqlock/builtin/locking/operator"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/seq"
)

type PendingReward struct {
	Operator   *math.HexOrDecimal256 `json:"operator"`
	Delegators *math.HexOrDecimal256 `json:"delegators"`
}

type Operator struct {
	ID                uint64                `json:"id"`
	Controller        seq.Address           `json:"controller"`
	Identity          seq.Address           `json:"identity"`
	Signer            seq.Address           `json:"signer"`
	PubKey            hexutil.Bytes         `json:"pubkey"`
	DelegationPool    *seq.Address          `json:"delegationPool"`
	Locked            *math.HexOrDecimal256 `json:"locked"`
	Delegated         *math.HexOrDecimal256 `json:"delegated"`
	Accrued           *math.HexOrDecimal256 `json:"accrued"`
	DelegatorsAccrued *math.HexOrDecimal256 `json:"delegatorsAccrued"`
	CommissionBps     uint32                `json:"commissionBps"`
	ActivationEpoch   uint64                `json:"activationEpoch"`
	DeactivationEpoch *uint64               `json:"deactivationEpoch"`
	ClaimableAfter    *uint64               `json:"claimableAfter"`
	Status            string                `json:"status"`
	Eligible          bool                  `json:"eligible"`
	Pending           *PendingReward        `json:"pendingReward,omitempty"`
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func owed(a reward.Accrual) *math.HexOrDecimal256 {
	return hexOrDecimal(a.Owed())
}

func convertOperator(id uint64, controller seq.Address, op *operator.Operator) *Operator {
	v := &Operator{
		ID:                id,
		Controller:        controller,
		Identity:          op.Identity,
		Signer:            op.Signer,
		PubKey:            op.PubKey,
		Locked:            hexOrDecimal(op.Locked),
		Delegated:         hexOrDecimal(op.Delegated),
		Accrued:           owed(op.Accrued),
		DelegatorsAccrued: owed(op.DelegatorsAccrued),
		CommissionBps:     op.CommissionBps,
		ActivationEpoch:   op.ActivationEpoch,
		Status:            operator.StatusString(op.Status),
	}
	if !op.DelegationPool.IsZero() {
		pool := op.DelegationPool
		v.DelegationPool = &pool
	}
	if op.DeactivationEpoch != 0 {
		deact, claimable := op.DeactivationEpoch, op.ClaimableAfter
		v.DeactivationEpoch = &deact
		v.ClaimableAfter = &claimable
	}
	return v
}

type SignerEntry struct {
	Signer     seq.Address `json:"signer"`
	State      string      `json:"state"`
	OperatorID uint64      `json:"operatorId"`
}

func keyState(s operator.KeyState) string {
	switch s {
	case operator.KeyBound:
		return "bound"
	case operator.KeyRemoved:
		return "removed"
	default:
		return "none"
	}
}
