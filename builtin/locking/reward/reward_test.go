// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), seq.Ether)
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		cutoff   Cutoff
		epoch    uint64
		deact    uint64
		excluded bool
	}{
		{CutoffAfterDeactivation, 5, 0, false},
		{CutoffAfterDeactivation, 4, 5, false},
		{CutoffAfterDeactivation, 5, 5, false},
		{CutoffAfterDeactivation, 6, 5, true},
		{CutoffAtDeactivation, 4, 5, false},
		{CutoffAtDeactivation, 5, 5, true},
		{CutoffAtDeactivation, 6, 5, true},
		{CutoffAtDeactivation, 100, 0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.excluded, tt.cutoff.Excludes(tt.epoch, tt.deact), "%v epoch %d deact %d", tt.cutoff, tt.epoch, tt.deact)
	}
}

func TestParse(t *testing.T) {
	p, err := ParsePolicy("ProRata")
	require.NoError(t, err)
	assert.Equal(t, ProRata, p)
	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Flat, p)
	_, err = ParsePolicy("linear")
	assert.Error(t, err)

	c, err := ParseCutoff("at")
	require.NoError(t, err)
	assert.Equal(t, CutoffAtDeactivation, c)
	assert.Equal(t, "after", CutoffAfterDeactivation.String())
	_, err = ParseCutoff("never")
	assert.Error(t, err)
}

func TestAccrual(t *testing.T) {
	var untouched Accrual
	assert.False(t, untouched.Touched)
	assert.Equal(t, "0", untouched.Owed().String())

	zeroed := Zeroed()
	assert.True(t, zeroed.Touched)
	assert.Equal(t, "0", zeroed.Owed().String())

	credited := untouched.Add(big.NewInt(7)).Add(big.NewInt(3))
	assert.True(t, credited.Touched)
	assert.Equal(t, int64(10), credited.Owed().Int64())
	// Owed hands out a copy
	credited.Owed().SetInt64(0)
	assert.Equal(t, int64(10), credited.Owed().Int64())
}

func TestFlatReward(t *testing.T) {
	r, err := FlatReward(big.NewInt(10), ether(3))
	require.NoError(t, err)
	assert.Equal(t, ether(30).String(), r.String())

	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	_, err = FlatReward(huge, huge)
	assert.True(t, reverts.IsRevertErr(err))
}

func TestIndexIncrement(t *testing.T) {
	inc, err := IndexIncrement(big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "0", inc.String())

	_, err = IndexIncrement(big.NewInt(1), big.NewInt(0))
	assert.True(t, reverts.IsRevertErr(err))

	inc, err = IndexIncrement(ether(10), ether(100))
	require.NoError(t, err)
	want := new(big.Int).Div(seq.RewardPrecision, big.NewInt(10))
	assert.Equal(t, want.String(), inc.String())
}

func TestSettleCommission(t *testing.T) {
	// equal delegated stake, 10% commission, X distributed over the pair
	locked := ether(1000)
	x := ether(100)
	inc, err := IndexIncrement(x, new(big.Int).Add(locked, locked))
	require.NoError(t, err)

	split, err := Settle(inc, new(big.Int), Stake{Locked: locked, Delegated: locked, CommissionBps: 1000})
	require.NoError(t, err)
	assert.Equal(t, ether(55).String(), split.Operator.String())
	assert.Equal(t, ether(45).String(), split.Delegators.String())
	assert.Equal(t, x.String(), split.Total().String())
}

func TestSettleNoDelegation(t *testing.T) {
	inc, err := IndexIncrement(ether(10), ether(20))
	require.NoError(t, err)
	split, err := Settle(inc, new(big.Int), Stake{Locked: ether(20), Delegated: nil, CommissionBps: 5000})
	require.NoError(t, err)
	assert.Equal(t, ether(10).String(), split.Operator.String())
	assert.Equal(t, "0", split.Delegators.String())
}

func TestSettleEdges(t *testing.T) {
	split, err := Settle(big.NewInt(5), big.NewInt(5), Stake{Locked: ether(1)})
	require.NoError(t, err)
	assert.Equal(t, "0", split.Total().String())

	split, err = Settle(big.NewInt(5), big.NewInt(0), Stake{})
	require.NoError(t, err)
	assert.Equal(t, "0", split.Total().String())

	_, err = Settle(big.NewInt(4), big.NewInt(5), Stake{Locked: ether(1)})
	assert.True(t, reverts.IsRevertErr(err))

	_, err = Settle(big.NewInt(5), big.NewInt(0), Stake{Locked: big.NewInt(-1)})
	assert.True(t, reverts.IsRevertErr(err))
}

func TestSettleOrderIndependent(t *testing.T) {
	a := Stake{Locked: ether(300), Delegated: ether(100), CommissionBps: 250}
	b := Stake{Locked: ether(700), CommissionBps: 0}
	aggregate := new(big.Int).Add(new(big.Int).Add(a.Locked, a.Delegated), b.Locked)

	i1, _ := IndexIncrement(ether(17), aggregate)
	i2, _ := IndexIncrement(ether(5), aggregate)
	final := new(big.Int).Add(i1, i2)

	// settling a in between and b only at the end
	mid, err := Settle(i1, new(big.Int), a)
	require.NoError(t, err)
	rest, err := Settle(final, i1, a)
	require.NoError(t, err)
	once, err := Settle(final, new(big.Int), a)
	require.NoError(t, err)

	steppedOp := new(big.Int).Add(mid.Operator, rest.Operator)
	// rounding may leave a few units of dust
	diff := new(big.Int).Sub(once.Operator, steppedOp)
	assert.True(t, diff.CmpAbs(big.NewInt(4)) <= 0, "diff %v", diff)

	bSplit, err := Settle(final, new(big.Int), b)
	require.NoError(t, err)
	bAgain, err := Settle(final, new(big.Int), b)
	require.NoError(t, err)
	assert.Equal(t, bSplit.Operator.String(), bAgain.Operator.String())
}

func TestIndexStorage(t *testing.T) {
	idx := New(solidity.NewContext(seq.BytesToAddress([]byte("locking")), state.New(nil)))

	v, err := idx.Distribute(big.NewInt(0), big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "0", v.String())

	v, err = idx.Distribute(ether(1), ether(10))
	require.NoError(t, err)
	tenth := new(big.Int).Div(seq.RewardPrecision, big.NewInt(10))
	assert.Equal(t, tenth.String(), v.String())

	v, err = idx.Distribute(ether(1), ether(10))
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(tenth, big.NewInt(2)).String(), v.String())

	require.NoError(t, idx.Record(3))
	at, err := idx.At(3)
	require.NoError(t, err)
	assert.Equal(t, v.String(), at.String())
	at, err = idx.At(2)
	require.NoError(t, err)
	assert.Equal(t, "0", at.String())

	idx.SetRate(big.NewInt(42))
	rate, err := idx.Rate()
	require.NoError(t, err)
	assert.Equal(t, int64(42), rate.Int64())

	require.NoError(t, idx.AddLiquidated(big.NewInt(9)))
	liq, err := idx.Liquidated()
	require.NoError(t, err)
	assert.Equal(t, int64(9), liq.Int64())
}
