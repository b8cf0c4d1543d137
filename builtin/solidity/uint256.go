// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/seqlock/seq"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
// If the provided uint exceeds 256 bits, it will be truncated to fit into seq.Bytes32
type Uint256 struct {
	context *Context
	pos     seq.Bytes32
}

func NewUint256(context *Context, slot seq.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint256) Set(value *big.Int) {
	storage := seq.BytesToBytes32(value.Bytes())
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Add(storage, value)
	if storage.BitLen() > 256 {
		return errors.New("uint256 overflow")
	}
	u.Set(storage)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return errors.New("uint256 underflow")
	}
	storage.Sub(storage, value)
	u.Set(storage)
	return nil
}

// Uint64 is a counter slot.
type Uint64 struct {
	context *Context
	pos     seq.Bytes32
}

func NewUint64(context *Context, slot seq.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: slot}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return new(big.Int).SetBytes(storage.Bytes()).Uint64(), nil
}

func (u *Uint64) Set(value uint64) {
	u.context.state.SetStorage(u.context.address, u.pos, seq.Uint64ToBytes32(value))
}

// Increment adds delta and returns the new value.
func (u *Uint64) Increment(delta uint64) (uint64, error) {
	value, err := u.Get()
	if err != nil {
		return 0, err
	}
	if value+delta < value {
		return 0, errors.New("uint64 overflow")
	}
	u.Set(value + delta)
	return value + delta, nil
}

// Decrement subtracts delta and returns the new value.
func (u *Uint64) Decrement(delta uint64) (uint64, error) {
	value, err := u.Get()
	if err != nil {
		return 0, err
	}
	if value < delta {
		return 0, errors.New("uint64 underflow")
	}
	u.Set(value - delta)
	return value - delta, nil
}
