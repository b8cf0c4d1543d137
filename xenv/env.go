// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/seqlock/seq"
)

// Environment is the context of one engine call.
type Environment struct {
	caller  seq.Address
	time    uint64
	chainID uint64
}

// New create a new env.
func New(caller seq.Address, time uint64, chainID uint64) *Environment {
	return &Environment{
		caller:  caller,
		time:    time,
		chainID: chainID,
	}
}

func (env *Environment) Caller() seq.Address { return env.caller }
func (env *Environment) Time() uint64        { return env.time }
func (env *Environment) ChainID() uint64     { return env.chainID }

// WithCaller returns a copy of env acting for caller.
func (env *Environment) WithCaller(caller seq.Address) *Environment {
	cpy := *env
	cpy.caller = caller
	return &cpy
}
