// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operator

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/seq"
)

type Status = uint8

const (
	StatusUnknown  = Status(iota) // 0 -> no record
	StatusActive                  // locked and accruing
	StatusExiting                 // unlock requested, waiting for the claim
	StatusUnlocked                // collateral released, terminal
)

// StatusString names s.
func StatusString(s Status) string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExiting:
		return "exiting"
	case StatusUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Operator is the stored record of one operator id.
type Operator struct {
	Identity       seq.Address // the address claimed at join
	Signer         seq.Address // the current signing key, zero once unlocked
	PubKey         []byte      // uncompressed public key of the signer
	DelegationPool seq.Address // zero when delegation is disabled

	Locked    *big.Int // self stake
	Delegated *big.Int // stake contributed through the delegation pool

	Accrued           reward.Accrual // owed to the controller
	DelegatorsAccrued reward.Accrual // owed to the delegation pool
	Checkpoint        *big.Int       // global index at the last settlement

	CommissionBps uint32

	ActivationEpoch   uint64
	DeactivationEpoch uint64 // 0 while active
	DeactivationTime  uint64
	ClaimableAfter    uint64

	Status Status
}

func (o *Operator) IsEmpty() bool {
	return o.Status == StatusUnknown
}

// Combined returns the self stake plus the delegated stake.
func (o *Operator) Combined() *big.Int {
	return new(big.Int).Add(orZero(o.Locked), orZero(o.Delegated))
}

// Stake returns the settlement view of o.
func (o *Operator) Stake() reward.Stake {
	return reward.Stake{
		Locked:        orZero(o.Locked),
		Delegated:     orZero(o.Delegated),
		CommissionBps: o.CommissionBps,
	}
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}

// KeyState is the state of a signing key in the inverse map.
type KeyState = uint8

const (
	KeyNone    = KeyState(iota) // never bound, or freed by a claim
	KeyBound                    // attributes batch rewards to OperatorID
	KeyRemoved                  // unlock requested, reserved until the claim
)

// SignerEntry maps a signing key back to its operator.
type SignerEntry struct {
	State      KeyState
	OperatorID uint64
}
