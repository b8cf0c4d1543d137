// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operator

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

func newService() (*Service, *state.State) {
	st := state.New(nil)
	return New(solidity.NewContext(seq.BytesToAddress([]byte("locking")), st)), st
}

func signer(b byte) seq.Address {
	return seq.BytesToAddress([]byte{b})
}

func TestAddAllocatesDenseIDs(t *testing.T) {
	svc, _ := newService()

	id1, op, err := svc.Add(signer(2), []byte{4, 2}, big.NewInt(100), 0, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, StatusActive, op.Status)
	assert.True(t, op.Accrued.Touched)
	assert.Equal(t, "0", op.Accrued.Owed().String())

	id2, _, err := svc.Add(signer(1), nil, big.NewInt(50), 3, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)

	stored, err := svc.GetOperator(id2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stored.ActivationEpoch)
	assert.Equal(t, int64(7), stored.Checkpoint.Int64())
	assert.Equal(t, int64(50), stored.Locked.Int64())
	assert.Equal(t, "0", stored.Delegated.String())

	signers, err := svc.Signers()
	require.NoError(t, err)
	assert.Equal(t, []seq.Address{signer(1), signer(2)}, signers)

	entry, err := svc.LookupSigner(signer(2))
	require.NoError(t, err)
	assert.Equal(t, SignerEntry{State: KeyBound, OperatorID: 1}, *entry)

	_, _, err = svc.Add(signer(2), nil, big.NewInt(1), 0, big.NewInt(0))
	assert.True(t, reverts.IsRevertErr(err))

	missing, err := svc.GetOperator(9)
	require.NoError(t, err)
	assert.True(t, missing.IsEmpty())
	_, err = svc.MustGet(9)
	assert.True(t, reverts.IsRevertErr(err))
}

func TestLifecycle(t *testing.T) {
	svc, _ := newService()
	id, op, err := svc.Add(signer(5), nil, big.NewInt(100), 0, big.NewInt(0))
	require.NoError(t, err)

	assert.True(t, reverts.IsRevertErr(svc.Release(id, op)))
	assert.True(t, reverts.IsRevertErr(svc.Deactivate(id, op, 0, 10, 5)))

	require.NoError(t, svc.Deactivate(id, op, 1, 10, 5))
	op, err = svc.GetOperator(id)
	require.NoError(t, err)
	assert.Equal(t, StatusExiting, op.Status)
	assert.Equal(t, uint64(1), op.DeactivationEpoch)
	assert.Equal(t, uint64(15), op.ClaimableAfter)

	// removed from the registry but still reserved
	n, _ := svc.ActiveCount()
	assert.Equal(t, uint64(0), n)
	entry, _ := svc.LookupSigner(signer(5))
	assert.Equal(t, KeyRemoved, entry.State)
	_, _, err = svc.Add(signer(5), nil, big.NewInt(1), 0, big.NewInt(0))
	assert.True(t, reverts.IsRevertErr(err))

	assert.True(t, reverts.IsRevertErr(svc.Deactivate(id, op, 2, 10, 5)))

	require.NoError(t, svc.Release(id, op))
	op, _ = svc.GetOperator(id)
	assert.Equal(t, StatusUnlocked, op.Status)
	assert.Equal(t, "0", op.Locked.String())
	assert.True(t, op.Signer.IsZero())
	entry, _ = svc.LookupSigner(signer(5))
	assert.Equal(t, KeyNone, entry.State)

	// the identity may join again, under a fresh id
	id2, _, err := svc.Add(signer(5), nil, big.NewInt(1), 0, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)
	last, _ := svc.LastID()
	assert.Equal(t, uint64(2), last)
}

func TestRotate(t *testing.T) {
	svc, _ := newService()
	id, op, err := svc.Add(signer(5), nil, big.NewInt(100), 0, big.NewInt(0))
	require.NoError(t, err)
	_, _, err = svc.Add(signer(6), nil, big.NewInt(100), 0, big.NewInt(0))
	require.NoError(t, err)

	assert.True(t, reverts.IsRevertErr(svc.Rotate(id, op, signer(6), nil)))

	require.NoError(t, svc.Rotate(id, op, signer(9), []byte{1}))
	signers, _ := svc.Signers()
	assert.Equal(t, []seq.Address{signer(6), signer(9)}, signers)

	old, _ := svc.LookupSigner(signer(5))
	assert.Equal(t, KeyNone, old.State)
	cur, _ := svc.LookupSigner(signer(9))
	assert.Equal(t, SignerEntry{State: KeyBound, OperatorID: id}, *cur)

	op, _ = svc.GetOperator(id)
	assert.Equal(t, signer(9), op.Signer)
	assert.Equal(t, signer(5), op.Identity)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "active", StatusString(StatusActive))
	assert.Equal(t, "exiting", StatusString(StatusExiting))
	assert.Equal(t, "unlocked", StatusString(StatusUnlocked))
	assert.Equal(t, "unknown", StatusString(StatusUnknown))
}
