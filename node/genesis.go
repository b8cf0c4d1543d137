// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/xenv"
)

var slotGenesis = seq.BytesToBytes32([]byte("node-genesis"))

// ErrInitialized is returned when genesis is applied to a storage that already has one.
var ErrInitialized = errors.New("node: already initialized")

// Allocation credits an account at genesis.
type Allocation struct {
	Address seq.Address           `json:"address" yaml:"address"`
	Amount  *math.HexOrDecimal256 `json:"amount" yaml:"amount"`
	// Approve lets the engine pull the whole allocation.
	Approve bool `json:"approve" yaml:"approve"`
}

// Genesis is the initial state of a deployment.
type Genesis struct {
	Owner       seq.Address           `json:"owner" yaml:"owner"`
	Submitter   seq.Address           `json:"submitter" yaml:"submitter"`
	RewardRate  *math.HexOrDecimal256 `json:"rewardRate" yaml:"rewardRate"`
	Allocations []Allocation          `json:"allocations" yaml:"allocations"`
	Allowed     []seq.Address         `json:"allowed" yaml:"allowed"`
}

// Initialized reports whether a genesis was applied.
func (n *Node) Initialized() (bool, error) {
	var ok bool
	err := n.View(func(c *Contracts) error {
		v, err := solidity.NewUint64(solidity.NewContext(nodeAddress, c.State), slotGenesis).Get()
		ok = v > 0
		return err
	})
	return ok, err
}

// Init applies gen once.
func (n *Node) Init(gen *Genesis) error {
	if gen.Owner.IsZero() {
		return errors.New("genesis owner required")
	}
	return n.Execute(gen.Owner, func(c *Contracts, env *xenv.Environment) error {
		marker := solidity.NewUint64(solidity.NewContext(nodeAddress, c.State), slotGenesis)
		if v, err := marker.Get(); err != nil {
			return err
		} else if v > 0 {
			return ErrInitialized
		}
		marker.Set(1)

		if err := c.Authority.SetOwner(seq.Address{}, gen.Owner); err != nil {
			return err
		}
		if !gen.Submitter.IsZero() {
			if err := c.Engine.SetTrustedSubmitter(env, gen.Submitter); err != nil {
				return err
			}
		}
		if gen.RewardRate != nil {
			if err := c.Engine.SetRewardRate(env, (*big.Int)(gen.RewardRate)); err != nil {
				return err
			}
		}
		for _, alloc := range gen.Allocations {
			if alloc.Amount == nil {
				return errors.Errorf("allocation of %v has no amount", alloc.Address)
			}
			amount := (*big.Int)(alloc.Amount)
			if err := c.Token.Mint(alloc.Address, amount); err != nil {
				return errors.Wrapf(err, "allocate %v", alloc.Address)
			}
			if alloc.Approve {
				if err := c.Token.Approve(alloc.Address, n.params.Address, amount); err != nil {
					return err
				}
			}
		}
		for _, addr := range gen.Allowed {
			if err := c.Authority.Allow(gen.Owner, addr); err != nil {
				return errors.Wrapf(err, "allow %v", addr)
			}
		}
		logger.Info("genesis applied", "owner", gen.Owner, "allocations", len(gen.Allocations), "allowed", len(gen.Allowed))
		return nil
	})
}
