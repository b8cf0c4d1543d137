// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

var (
	slotOwner   = seq.BytesToBytes32([]byte("authority-owner"))
	slotEntries = seq.BytesToBytes32([]byte("authority-entries"))
	slotListed  = seq.BytesToBytes32([]byte("authority-listed"))
)

type entry struct {
	Allowed    bool
	Privileged bool
}

func (e *entry) IsEmpty() bool {
	return !e.Allowed && !e.Privileged
}

// Authority keeps the owner, privileged admins and the join allow-list.
type Authority struct {
	owner   *solidity.Address
	entries *solidity.Mapping[seq.Address, *entry]
	listed  *solidity.Uint64
}

// New create a new instance.
func New(addr seq.Address, state *state.State) *Authority {
	sctx := solidity.NewContext(addr, state)
	return &Authority{
		owner:   solidity.NewAddress(sctx, slotOwner),
		entries: solidity.NewMapping[seq.Address, *entry](sctx, slotEntries),
		listed:  solidity.NewUint64(sctx, slotListed),
	}
}

// Owner returns the governance owner.
func (a *Authority) Owner() (seq.Address, error) {
	return a.owner.Get()
}

// SetOwner replaces the owner, only by the current one.
// The first owner can be set by anyone, which is done at genesis.
func (a *Authority) SetOwner(caller, newOwner seq.Address) error {
	current, err := a.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() && caller != current {
		return reverts.New("builtin: owner required")
	}
	if newOwner.IsZero() {
		return reverts.New("builtin: zero owner")
	}
	a.owner.Set(newOwner)
	return nil
}

// IsPrivileged reports whether addr may run privileged operations.
func (a *Authority) IsPrivileged(addr seq.Address) (bool, error) {
	owner, err := a.owner.Get()
	if err != nil {
		return false, err
	}
	if !owner.IsZero() && owner == addr {
		return true, nil
	}
	e, err := a.entries.Get(addr)
	if err != nil {
		return false, err
	}
	return e.Privileged, nil
}

// IsAllowed reports whether addr is on the allow-list.
func (a *Authority) IsAllowed(addr seq.Address) (bool, error) {
	e, err := a.entries.Get(addr)
	if err != nil {
		return false, err
	}
	return e.Allowed, nil
}

// Listed returns the number of allow-listed addresses.
func (a *Authority) Listed() (uint64, error) {
	return a.listed.Get()
}

// Allow puts addr on the allow-list.
func (a *Authority) Allow(caller, addr seq.Address) error {
	return a.update(caller, addr, func(e *entry) error {
		if e.Allowed {
			return reverts.New("builtin: already allowed")
		}
		e.Allowed = true
		_, err := a.listed.Increment(1)
		return err
	})
}

// Revoke removes addr from the allow-list.
func (a *Authority) Revoke(caller, addr seq.Address) error {
	return a.update(caller, addr, func(e *entry) error {
		if !e.Allowed {
			return reverts.New("builtin: not allowed")
		}
		e.Allowed = false
		_, err := a.listed.Decrement(1)
		return err
	})
}

// SetPrivileged grants or drops admin rights of addr, only by the owner.
func (a *Authority) SetPrivileged(caller, addr seq.Address, privileged bool) error {
	owner, err := a.owner.Get()
	if err != nil {
		return err
	}
	if caller != owner {
		return reverts.New("builtin: owner required")
	}
	e, err := a.entries.Get(addr)
	if err != nil {
		return err
	}
	e.Privileged = privileged
	return a.setEntry(addr, e)
}

func (a *Authority) update(caller, addr seq.Address, cb func(*entry) error) error {
	privileged, err := a.IsPrivileged(caller)
	if err != nil {
		return err
	}
	if !privileged {
		return reverts.New("builtin: privileged required")
	}
	e, err := a.entries.Get(addr)
	if err != nil {
		return err
	}
	if err := cb(e); err != nil {
		return err
	}
	return a.setEntry(addr, e)
}

func (a *Authority) setEntry(addr seq.Address, e *entry) error {
	if e.IsEmpty() {
		a.entries.Delete(addr)
		return nil
	}
	return a.entries.Set(addr, e)
}
