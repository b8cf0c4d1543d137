// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package locking

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
)

func TestFlatRewards(t *testing.T) {
	h := newHarness(t, func(p *Params) { p.Policy = reward.Flat })
	a := h.newAccount()
	id := h.join(a, 100)

	epoch := h.submit([]seq.Address{a.addr}, []int64{10})
	assert.Equal(t, uint64(1), epoch)

	opShare, delegShare := h.pending(id)
	assert.Equal(t, 10*rate, opShare)
	assert.Equal(t, int64(0), delegShare)
	assert.Equal(t, payerFunds-10*rate, h.balance(payer))

	paid, err := h.engine.WithdrawRewards(h.env(a.addr), id)
	require.NoError(t, err)
	assert.Equal(t, 10*rate, paid.Int64())
	assert.Equal(t, 10*rate, h.liquidated())
	assert.Equal(t, startFunds-100+10*rate, h.balance(a.addr))

	op, err := h.engine.Operator(id)
	require.NoError(t, err)
	assert.True(t, op.Accrued.Touched)
	assert.Equal(t, "0", op.Accrued.Owed().String())

	_, err = h.engine.WithdrawRewards(h.env(a.addr), id)
	assert.True(t, reverts.IsRevertErr(err))

	// the flat index stays untouched
	index, err := h.engine.RewardIndex()
	require.NoError(t, err)
	assert.Equal(t, "0", index.String())
}

func TestCommissionRewards(t *testing.T) {
	h := newHarness(t, nil)
	a := h.newAccount()
	pool := seq.BytesToAddress([]byte("pool"))
	id := h.join(a, 1_000)

	require.NoError(t, h.engine.SetDelegationPool(h.env(a.addr), id, pool))
	assert.True(t, reverts.IsRevertErr(h.engine.SetDelegationPool(h.env(a.addr), id, pool)), "set twice")
	assert.True(t, reverts.IsRevertErr(h.engine.UpdateDelegation(h.env(a.addr), id, big.NewInt(1_000))), "not the pool")
	require.NoError(t, h.engine.UpdateDelegation(h.env(pool), id, big.NewInt(1_000)))
	require.NoError(t, h.engine.SetCommission(h.env(a.addr), id, 1_000))

	amount, _ := h.totals()
	assert.Equal(t, int64(2_000), amount)

	// X = 20 units x 5 = 100 over equal self and delegated stake
	h.submit([]seq.Address{a.addr}, []int64{20})
	opShare, delegShare := h.pending(id)
	assert.Equal(t, int64(55), opShare)
	assert.Equal(t, int64(45), delegShare)

	_, err := h.engine.ClaimDelegatorRewards(h.env(a.addr), id)
	assert.True(t, reverts.IsRevertErr(err))
	paid, err := h.engine.ClaimDelegatorRewards(h.env(pool), id)
	require.NoError(t, err)
	assert.Equal(t, int64(45), paid.Int64())
	assert.Equal(t, int64(45), h.balance(pool))

	paid, err = h.engine.WithdrawRewards(h.env(a.addr), id)
	require.NoError(t, err)
	assert.Equal(t, int64(55), paid.Int64())
	assert.Equal(t, int64(100), h.liquidated())

	// undelegate half
	require.NoError(t, h.engine.UpdateDelegation(h.env(pool), id, big.NewInt(-500)))
	amount, _ = h.totals()
	assert.Equal(t, int64(1_500), amount)
	assert.True(t, reverts.IsRevertErr(h.engine.UpdateDelegation(h.env(pool), id, big.NewInt(-501))))
	assert.True(t, reverts.IsRevertErr(h.engine.UpdateDelegation(h.env(pool), id, big.NewInt(0))))
}

func TestCutoffAtDeactivationEpoch(t *testing.T) {
	tests := []struct {
		cutoff   reward.Cutoff
		eligible bool
		share    int64
		others   int64
	}{
		{reward.CutoffAfterDeactivation, true, 100, 100},
		{reward.CutoffAtDeactivation, false, 0, 150},
	}
	for _, tt := range tests {
		t.Run(tt.cutoff.String(), func(t *testing.T) {
			h := newHarness(t, func(p *Params) { p.Cutoff = tt.cutoff })
			accounts, ids := h.joinN(3, 100)
			a, id := accounts[0], ids[0]

			require.NoError(t, h.engine.Unlock(h.env(a.addr), id))
			op, err := h.engine.Operator(id)
			require.NoError(t, err)
			require.Equal(t, uint64(1), op.DeactivationEpoch)

			eligible, err := h.engine.IsEligible(id, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.eligible, eligible)
			eligible, err = h.engine.IsEligible(id, 2)
			require.NoError(t, err)
			assert.False(t, eligible)

			attributed := func() int64 {
				var sum int64
				for _, i := range ids {
					share, _ := h.pending(i)
					sum += share
				}
				return sum
			}

			// 300 shared by the stake that still accrues at the exit epoch
			before := h.balance(payer)
			h.submit([]seq.Address{accounts[1].addr, accounts[2].addr}, []int64{30, 30})
			share, _ := h.pending(id)
			assert.Equal(t, tt.share, share)
			share, _ = h.pending(ids[1])
			assert.Equal(t, tt.others, share)
			assert.Equal(t, before-h.balance(payer), attributed())

			// 200 over the remaining 200
			h.submit([]seq.Address{accounts[1].addr}, []int64{40})
			share, _ = h.pending(id)
			assert.Equal(t, tt.share, share)
			share, _ = h.pending(ids[1])
			assert.Equal(t, tt.others+100, share)
			assert.Equal(t, before-h.balance(payer), attributed())

			h.now += claimDelay
			require.NoError(t, h.engine.UnlockClaim(h.env(a.addr), id))
			assert.Equal(t, startFunds+tt.share, h.balance(a.addr))
		})
	}
}

func TestSettlementOrderIndependent(t *testing.T) {
	run := func(t *testing.T, settleFirst int) (int64, int64) {
		h := newHarness(t, nil)
		a, b := h.newAccount(), h.newAccount()
		idA := h.join(a, 100)
		idB := h.join(b, 300)

		h.submit([]seq.Address{a.addr}, []int64{20})
		ids := []uint64{idA, idB}
		controllers := []seq.Address{a.addr, b.addr}
		require.NoError(t, h.engine.SetCommission(h.env(controllers[settleFirst]), ids[settleFirst], 0))
		h.submit([]seq.Address{b.addr}, []int64{40})

		shareA, _ := h.pending(idA)
		shareB, _ := h.pending(idB)
		return shareA, shareB
	}

	a1, b1 := run(t, 0)
	a2, b2 := run(t, 1)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, int64(75), a1)
	assert.Equal(t, int64(225), b1)
}

func TestSubmitBatchChecks(t *testing.T) {
	h := newHarness(t, nil)
	accounts, _ := h.joinN(3, 100)
	signers := []seq.Address{accounts[0].addr}

	// mismatched arrays are rejected before the signature is looked at
	s := h.batch(signers, []int64{1})
	s.Units = nil
	s.Signature = []byte{1}
	_, err := h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, reverts.IsRevertErr(err))
	assert.False(t, errors.Is(err, batch.ErrBadSignature))

	s = h.batch(signers, []int64{1})
	s.Signature[10] ^= 0xff
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, errors.Is(err, batch.ErrBadSignature))

	s = h.batch(signers, []int64{1})
	s.Epoch = 2
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, reverts.IsRevertErr(err), "skipped epoch")

	s = h.batch(signers, []int64{1})
	s.WindowEnd = s.WindowStart
	require.NoError(t, batch.Sign(s, chainID, engineAddr, h.submitter))
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, reverts.IsRevertErr(err), "empty window")

	_, stranger, _ := newKey(t)
	s = h.batch([]seq.Address{accounts[0].addr, stranger}, []int64{1, 1})
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, reverts.IsRevertErr(err), "unknown signer")

	epoch, err := h.engine.Epoch()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)
	assert.Equal(t, payerFunds, h.balance(payer))

	s = h.batch(signers, []int64{1})
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	require.NoError(t, err)
	h.window = s.WindowEnd

	// the same epoch cannot be finalized twice
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, reverts.IsRevertErr(err))

	// a window overlapping the last one
	s = h.batch(signers, []int64{1})
	s.WindowStart = h.window - 1
	require.NoError(t, batch.Sign(s, chainID, engineAddr, h.submitter))
	_, err = h.engine.SubmitBatch(h.env(payer), s)
	assert.True(t, reverts.IsRevertErr(err))

	last, err := h.engine.LastWindowEnd()
	require.NoError(t, err)
	assert.Equal(t, h.window, last)

	events := h.engine.Drain()
	require.NotEmpty(t, events)
	ev := events[len(events)-1]
	assert.Equal(t, EventBatchSubmitted, ev.Name)
	assert.Equal(t, uint64(1), ev.Epoch)
	assert.Equal(t, rate, ev.Amount.Int64())
	assert.Equal(t, "1", ev.Fields["entries"])
}

func TestSubmitBatchRevertsOnPayment(t *testing.T) {
	h := newHarness(t, func(p *Params) { p.Policy = reward.Flat })
	a := h.newAccount()
	id := h.join(a, 100)
	require.NoError(t, h.token.Approve(payer, engineAddr, big.NewInt(0)))

	_, err := h.engine.SubmitBatch(h.env(payer), h.batch([]seq.Address{a.addr}, []int64{10}))
	assert.True(t, reverts.IsRevertErr(err))

	share, _ := h.pending(id)
	assert.Equal(t, int64(0), share)
	epoch, err := h.engine.Epoch()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), epoch)
}

func TestEmptyBatch(t *testing.T) {
	h := newHarness(t, nil)
	// an empty batch only advances the epoch
	assert.Equal(t, uint64(1), h.submit(nil, nil))
	assert.Equal(t, uint64(2), h.submit(nil, nil))
	index, err := h.engine.RewardIndex()
	require.NoError(t, err)
	assert.Equal(t, "0", index.String())
}
