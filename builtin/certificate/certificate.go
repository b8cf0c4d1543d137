// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package certificate keeps the ownership certificates of operator ids.
package certificate

import (
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

var (
	slotOwners  = seq.BytesToBytes32([]byte("certificate-owners"))
	slotBalance = seq.BytesToBytes32([]byte("certificate-balance"))
	slotMinted  = seq.BytesToBytes32([]byte("certificate-minted"))
)

// Registry implements an NFT like owner map keyed by operator id.
type Registry struct {
	owners  *solidity.Mapping[seq.Uint64Key, seq.Address]
	balance *solidity.Mapping[seq.Address, uint64]
	minted  *solidity.Uint64
}

// New create a new instance.
func New(addr seq.Address, state *state.State) *Registry {
	sctx := solidity.NewContext(addr, state)
	return &Registry{
		owners:  solidity.NewMapping[seq.Uint64Key, seq.Address](sctx, slotOwners),
		balance: solidity.NewMapping[seq.Address, uint64](sctx, slotBalance),
		minted:  solidity.NewUint64(sctx, slotMinted),
	}
}

// OwnerOf returns the holder of id, or reverts if it does not exist.
func (r *Registry) OwnerOf(id uint64) (seq.Address, error) {
	owner, err := r.owners.Get(seq.Uint64Key(id))
	if err != nil {
		return seq.Address{}, err
	}
	if owner.IsZero() {
		return seq.Address{}, reverts.Newf("certificate %d does not exist", id)
	}
	return owner, nil
}

// BalanceOf returns how many certificates owner holds.
func (r *Registry) BalanceOf(owner seq.Address) (uint64, error) {
	return r.balance.Get(owner)
}

// Minted returns the number of certificates ever minted.
func (r *Registry) Minted() (uint64, error) {
	return r.minted.Get()
}

// Mint issues id to owner.
func (r *Registry) Mint(owner seq.Address, id uint64) error {
	if owner.IsZero() {
		return reverts.New("mint to zero address")
	}
	exists, err := r.owners.Exists(seq.Uint64Key(id))
	if err != nil {
		return err
	}
	if exists {
		return reverts.Newf("certificate %d already minted", id)
	}
	if err := r.owners.Set(seq.Uint64Key(id), owner); err != nil {
		return err
	}
	if _, err := r.minted.Increment(1); err != nil {
		return err
	}
	return r.adjust(owner, 1)
}

// Burn destroys id.
func (r *Registry) Burn(id uint64) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	r.owners.Delete(seq.Uint64Key(id))
	return r.adjust(owner, -1)
}

// TransferFrom moves id from its current holder to another address.
func (r *Registry) TransferFrom(from, to seq.Address, id uint64) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return reverts.New("transfer from non-owner")
	}
	if to.IsZero() {
		return reverts.New("transfer to zero address")
	}
	if from == to {
		return nil
	}
	if err := r.owners.Set(seq.Uint64Key(id), to); err != nil {
		return err
	}
	if err := r.adjust(from, -1); err != nil {
		return err
	}
	return r.adjust(to, 1)
}

func (r *Registry) adjust(owner seq.Address, delta int) error {
	n, err := r.balance.Get(owner)
	if err != nil {
		return err
	}
	if delta < 0 {
		n--
	} else {
		n++
	}
	return r.balance.Set(owner, n)
}
