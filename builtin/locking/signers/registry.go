// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package signers keeps the ascending list of active signing keys.
//
// Insert keeps the list sorted, Remove swaps the last key into the hole and so
// does not. The order is canonical only right after an insert.
package signers

import (
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
)

var (
	slotLength = seq.BytesToBytes32([]byte("signers-length"))
	slotItems  = seq.BytesToBytes32([]byte("signers-items"))
)

// Registry is a storage backed dynamic array of addresses.
type Registry struct {
	length *solidity.Uint64
	items  *solidity.Mapping[seq.Uint64Key, seq.Address]
}

func New(sctx *solidity.Context) *Registry {
	return &Registry{
		length: solidity.NewUint64(sctx, slotLength),
		items:  solidity.NewMapping[seq.Uint64Key, seq.Address](sctx, slotItems),
	}
}

// Len returns the number of signers.
func (r *Registry) Len() (uint64, error) {
	return r.length.Get()
}

// At returns the signer at index i.
func (r *Registry) At(i uint64) (seq.Address, error) {
	n, err := r.length.Get()
	if err != nil {
		return seq.Address{}, err
	}
	if i >= n {
		return seq.Address{}, errors.Errorf("signer index %d out of range %d", i, n)
	}
	return r.items.Get(seq.Uint64Key(i))
}

// All returns the signers in storage order.
func (r *Registry) All() ([]seq.Address, error) {
	n, err := r.length.Get()
	if err != nil {
		return nil, err
	}
	all := make([]seq.Address, 0, n)
	for i := range n {
		addr, err := r.items.Get(seq.Uint64Key(i))
		if err != nil {
			return nil, err
		}
		all = append(all, addr)
	}
	return all, nil
}

// indexOf returns the index of key, or n when absent.
func (r *Registry) indexOf(key seq.Address) (uint64, uint64, error) {
	n, err := r.length.Get()
	if err != nil {
		return 0, 0, err
	}
	for i := range n {
		addr, err := r.items.Get(seq.Uint64Key(i))
		if err != nil {
			return 0, 0, err
		}
		if addr == key {
			return i, n, nil
		}
	}
	return n, n, nil
}

// Contains reports whether key is registered.
func (r *Registry) Contains(key seq.Address) (bool, error) {
	i, n, err := r.indexOf(key)
	if err != nil {
		return false, err
	}
	return i < n, nil
}

// Insert places key in its ascending position, shifting larger keys up by one.
// After a swap-remove only the tail run is ordered, the key lands in its slot within that run.
func (r *Registry) Insert(key seq.Address) error {
	i, n, err := r.indexOf(key)
	if err != nil {
		return err
	}
	if i < n {
		return reverts.Newf("signer %v already registered", key)
	}

	pos := n
	for pos > 0 {
		prev, err := r.items.Get(seq.Uint64Key(pos - 1))
		if err != nil {
			return err
		}
		if prev.Compare(key) < 0 {
			break
		}
		if err := r.items.Set(seq.Uint64Key(pos), prev); err != nil {
			return errors.Wrap(err, "shift signer")
		}
		pos--
	}
	if err := r.items.Set(seq.Uint64Key(pos), key); err != nil {
		return errors.Wrap(err, "insert signer")
	}
	r.length.Set(n + 1)
	return nil
}

// Remove drops key by moving the last signer into its slot.
func (r *Registry) Remove(key seq.Address) error {
	i, n, err := r.indexOf(key)
	if err != nil {
		return err
	}
	if i == n {
		return reverts.Newf("signer %v not registered", key)
	}
	last := n - 1
	if i != last {
		tail, err := r.items.Get(seq.Uint64Key(last))
		if err != nil {
			return err
		}
		if err := r.items.Set(seq.Uint64Key(i), tail); err != nil {
			return errors.Wrap(err, "move signer")
		}
	}
	r.items.Delete(seq.Uint64Key(last))
	r.length.Set(last)
	return nil
}
