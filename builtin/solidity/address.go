// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/seqlock/seq"
)

type Address struct {
	context *Context
	pos     seq.Bytes32
}

func NewAddress(context *Context, pos seq.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (seq.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return seq.Address{}, err
	}
	return seq.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr seq.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, seq.BytesToBytes32(addr.Bytes()))
}
