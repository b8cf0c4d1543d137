// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

// Context binds typed storage helpers to a contract address on a state.
type Context struct {
	address seq.Address
	state   *state.State
}

func NewContext(address seq.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() seq.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
