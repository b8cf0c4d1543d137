// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
)

var (
	errOverflow = reverts.New("reward arithmetic overflow")

	precision = uint256.MustFromBig(seq.RewardPrecision)
	maxBps    = uint256.NewInt(uint64(seq.MaxBps))
)

func toU256(x *big.Int) (*uint256.Int, error) {
	if x == nil {
		return new(uint256.Int), nil
	}
	if x.Sign() < 0 {
		return nil, reverts.New("negative amount")
	}
	v, overflow := uint256.FromBig(x)
	if overflow {
		return nil, errOverflow
	}
	return v, nil
}

func mulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, errOverflow
	}
	return z, nil
}

// FlatReward returns units x rate.
func FlatReward(units, rate *big.Int) (*big.Int, error) {
	u, err := toU256(units)
	if err != nil {
		return nil, err
	}
	r, err := toU256(rate)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulOverflow(u, r)
	if overflow {
		return nil, errOverflow
	}
	return z.ToBig(), nil
}

// IndexIncrement returns total x PRECISION / aggregate.
func IndexIncrement(total, aggregate *big.Int) (*big.Int, error) {
	t, err := toU256(total)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return new(big.Int), nil
	}
	a, err := toU256(aggregate)
	if err != nil {
		return nil, err
	}
	if a.IsZero() {
		return nil, reverts.New("no stake to distribute over")
	}
	inc, err := mulDiv(t, precision, a)
	if err != nil {
		return nil, err
	}
	return inc.ToBig(), nil
}

// Stake is the part of an operator record settlement depends on.
type Stake struct {
	Locked        *big.Int
	Delegated     *big.Int
	CommissionBps uint32
}

// Split is a settled reward divided between the operator and its delegators.
type Split struct {
	Operator   *big.Int
	Delegators *big.Int
}

// Total returns the whole settled amount.
func (s *Split) Total() *big.Int {
	return new(big.Int).Add(s.Operator, s.Delegators)
}

// Settle computes what stake earned while the index moved from checkpoint to index.
func Settle(index, checkpoint *big.Int, stake Stake) (*Split, error) {
	split := &Split{Operator: new(big.Int), Delegators: new(big.Int)}

	idx, err := toU256(index)
	if err != nil {
		return nil, err
	}
	init, err := toU256(checkpoint)
	if err != nil {
		return nil, err
	}
	if idx.Lt(init) {
		return nil, reverts.New("reward checkpoint ahead of index")
	}
	locked, err := toU256(stake.Locked)
	if err != nil {
		return nil, err
	}
	delegated, err := toU256(stake.Delegated)
	if err != nil {
		return nil, err
	}
	combined, overflow := new(uint256.Int).AddOverflow(locked, delegated)
	if overflow {
		return nil, errOverflow
	}
	if combined.IsZero() || idx.Eq(init) {
		return split, nil
	}

	owed, err := mulDiv(new(uint256.Int).Sub(idx, init), combined, precision)
	if err != nil {
		return nil, err
	}
	base, err := mulDiv(owed, locked, combined)
	if err != nil {
		return nil, err
	}
	delegatorShare := new(uint256.Int).Sub(owed, base)
	commission, err := mulDiv(delegatorShare, uint256.NewInt(uint64(stake.CommissionBps)), maxBps)
	if err != nil {
		return nil, err
	}

	split.Operator = new(uint256.Int).Add(base, commission).ToBig()
	split.Delegators = new(uint256.Int).Sub(delegatorShare, commission).ToBig()
	return split, nil
}
