// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timeline

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

func newTimeline() *Timeline {
	return New(solidity.NewContext(seq.BytesToAddress([]byte("locking")), state.New(nil)))
}

func totals(t *testing.T, tl *Timeline) (int64, uint64) {
	tt, err := tl.Totals()
	require.NoError(t, err)
	return tt.Amount.Int64(), tt.Count
}

func TestApplyNow(t *testing.T) {
	tl := newTimeline()

	require.NoError(t, tl.Apply(Now(), Increase(big.NewInt(100), 1)))
	require.NoError(t, tl.Apply(Now(), Increase(big.NewInt(50), 1)))
	amount, count := totals(t, tl)
	assert.Equal(t, int64(150), amount)
	assert.Equal(t, uint64(2), count)

	// a target at or before the current epoch is immediate too
	require.NoError(t, tl.Apply(AtEpoch(0), Decrease(big.NewInt(50), 1)))
	amount, count = totals(t, tl)
	assert.Equal(t, int64(100), amount)
	assert.Equal(t, uint64(1), count)

	inFlight, err := tl.ExitsInFlight()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), inFlight)
}

func TestDeferredFoldedOnce(t *testing.T) {
	tl := newTimeline()
	require.NoError(t, tl.Apply(Now(), Increase(big.NewInt(300), 3)))

	require.NoError(t, tl.Apply(AtEpoch(1), Decrease(big.NewInt(100), 1)))
	require.NoError(t, tl.Apply(AtEpoch(2), Decrease(big.NewInt(100), 1)))

	amount, count := totals(t, tl)
	assert.Equal(t, int64(300), amount)
	assert.Equal(t, uint64(3), count)
	inFlight, _ := tl.ExitsInFlight()
	assert.Equal(t, uint64(2), inFlight)

	epoch, folded, err := tl.Finalize()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), epoch)
	assert.Equal(t, uint64(1), folded.CountOut)
	amount, count = totals(t, tl)
	assert.Equal(t, int64(200), amount)
	assert.Equal(t, uint64(2), count)

	// the consumed entry is cleared
	pending, err := tl.Pending(1)
	require.NoError(t, err)
	assert.True(t, pending.IsEmpty())

	epoch, _, err = tl.Finalize()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), epoch)
	amount, count = totals(t, tl)
	assert.Equal(t, int64(100), amount)
	assert.Equal(t, uint64(1), count)

	// an empty epoch only advances
	epoch, folded, err = tl.Finalize()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), epoch)
	assert.True(t, folded.IsEmpty())
	amount, _ = totals(t, tl)
	assert.Equal(t, int64(100), amount)

	inFlight, _ = tl.ExitsInFlight()
	assert.Equal(t, uint64(0), inFlight)
}

func TestPendingMerge(t *testing.T) {
	tl := newTimeline()
	require.NoError(t, tl.Apply(Now(), Increase(big.NewInt(10), 2)))
	require.NoError(t, tl.Apply(AtEpoch(1), Decrease(big.NewInt(4), 1)))
	require.NoError(t, tl.Apply(AtEpoch(1), Decrease(big.NewInt(6), 1)))

	pending, err := tl.Pending(1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pending.AmountOut.Int64())
	assert.Equal(t, uint64(2), pending.CountOut)

	_, _, err = tl.Finalize()
	require.NoError(t, err)
	amount, count := totals(t, tl)
	assert.Equal(t, int64(0), amount)
	assert.Equal(t, uint64(0), count)
}

func TestFoldUnderflow(t *testing.T) {
	tl := newTimeline()
	assert.Error(t, tl.Apply(Now(), Decrease(big.NewInt(1), 0)))
	assert.Error(t, tl.Apply(Now(), Decrease(big.NewInt(0), 1)))
	assert.True(t, Increase(big.NewInt(0), 0).IsEmpty())
	assert.Equal(t, "now", Now().String())
	assert.Equal(t, "epoch 4", AtEpoch(4).String())
	assert.Equal(t, "epoch 18446744073709551615", AtEpoch(^uint64(0)).String())
}
