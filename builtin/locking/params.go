// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/seq"
)

// Params is the deployment profile of the engine.
type Params struct {
	Address          seq.Address // the engine account holding collateral and rewards
	ChainID          uint64
	MinLock          *big.Int
	MaxLock          *big.Int
	MaxOperators     uint64
	WithdrawalDelay  uint64 // seconds
	MaxCommissionBps uint32
	Policy           reward.Policy
	Cutoff           reward.Cutoff
	SignerCacheSize  int
}

// DefaultParams returns the default profile bound to address.
func DefaultParams(address seq.Address, chainID uint64) Params {
	return Params{
		Address:          address,
		ChainID:          chainID,
		MinLock:          new(big.Int).Set(seq.DefaultMinLock),
		MaxLock:          new(big.Int).Set(seq.DefaultMaxLock),
		MaxOperators:     seq.DefaultMaxOperators,
		WithdrawalDelay:  seq.DefaultWithdrawalDelay,
		MaxCommissionBps: seq.MaxBps,
		Policy:           reward.ProRata,
		Cutoff:           reward.CutoffAfterDeactivation,
		SignerCacheSize:  1024,
	}
}

// Validate checks the profile is usable.
func (p *Params) Validate() error {
	if p.Address.IsZero() {
		return errors.New("engine address required")
	}
	if p.MinLock == nil || p.MaxLock == nil || p.MinLock.Sign() <= 0 {
		return errors.New("lock bounds required")
	}
	if p.MinLock.Cmp(p.MaxLock) > 0 {
		return errors.Errorf("min lock %v above max lock %v", p.MinLock, p.MaxLock)
	}
	if p.MaxOperators == 0 {
		return errors.New("max operators must be positive")
	}
	if p.MaxCommissionBps > seq.MaxBps {
		return errors.Errorf("max commission %d above %d bps", p.MaxCommissionBps, seq.MaxBps)
	}
	if p.Policy != reward.Flat && p.Policy != reward.ProRata {
		return errors.Errorf("unknown policy %v", p.Policy)
	}
	if p.Cutoff != reward.CutoffAfterDeactivation && p.Cutoff != reward.CutoffAtDeactivation {
		return errors.Errorf("unknown cutoff %v", p.Cutoff)
	}
	if p.SignerCacheSize <= 0 {
		p.SignerCacheSize = 1024
	}
	return nil
}
