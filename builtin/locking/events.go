// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"

	"github.com/vechain/seqlock/seq"
)

// Event names.
const (
	EventLocked                  = "Locked"
	EventRelocked                = "Relocked"
	EventUnlockRequested         = "UnlockRequested"
	EventUnlocked                = "Unlocked"
	EventRewardsWithdrawn        = "RewardsWithdrawn"
	EventSignerUpdated           = "SignerUpdated"
	EventCommissionUpdated       = "CommissionUpdated"
	EventDelegationPoolSet       = "DelegationPoolSet"
	EventDelegationUpdated       = "DelegationUpdated"
	EventDelegatorRewardsClaimed = "DelegatorRewardsClaimed"
	EventOperatorTransferred     = "OperatorTransferred"
	EventTrustedSubmitterSet     = "TrustedSubmitterSet"
	EventRewardRateSet           = "RewardRateSet"
	EventBatchSubmitted          = "BatchSubmitted"
)

// Event is a structured record of an accepted engine call.
type Event struct {
	Name       string            `json:"name"`
	Time       uint64            `json:"time"`
	Epoch      uint64            `json:"epoch"`
	OperatorID uint64            `json:"operatorId,omitempty"`
	Signer     seq.Address       `json:"signer"`
	Amount     *big.Int          `json:"amount,omitempty"`
	Total      *big.Int          `json:"total,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (l *Locking) emit(ev *Event) {
	ev.Time = l.now
	l.events = append(l.events, ev)
}

// Drain returns the events of all accepted calls since the last drain.
func (l *Locking) Drain() []*Event {
	events := l.events
	l.events = nil
	return events
}
