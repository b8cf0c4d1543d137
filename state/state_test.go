// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/lvldb"
	"github.com/vechain/seqlock/seq"
)

func TestStateReadWrite(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := New(db)
	addr := seq.BytesToAddress([]byte("engine"))
	key := seq.BytesToBytes32([]byte("slot"))

	value, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	st.SetStorage(addr, key, seq.BytesToBytes32([]byte{1, 2}))
	value, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, seq.BytesToBytes32([]byte{1, 2}), value)

	require.NoError(t, st.EncodeStorage(addr, seq.Bytes32{9}, func() ([]byte, error) {
		return rlp.EncodeToBytes([]uint64{1, 2, 3})
	}))
	var decoded []uint64
	require.NoError(t, st.DecodeStorage(addr, seq.Bytes32{9}, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, []uint64{1, 2, 3}, decoded)
}

func TestStateCheckpoint(t *testing.T) {
	st := New(nil)
	addr := seq.BytesToAddress([]byte("engine"))
	key := seq.BytesToBytes32([]byte("slot"))

	st.SetStorage(addr, key, seq.Bytes32{1})
	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, seq.Bytes32{2})

	value, _ := st.GetStorage(addr, key)
	assert.Equal(t, seq.Bytes32{2}, value)

	st.RevertTo(cp)
	value, _ = st.GetStorage(addr, key)
	assert.Equal(t, seq.Bytes32{1}, value)

	assert.Equal(t, 1, st.Stage().Len())
}

func TestStageCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	addr := seq.BytesToAddress([]byte("engine"))
	k1 := seq.BytesToBytes32([]byte("k1"))
	k2 := seq.BytesToBytes32([]byte("k2"))

	st := New(db)
	st.SetStorage(addr, k1, seq.Bytes32{1})
	st.SetStorage(addr, k2, seq.Bytes32{2})
	st.SetStorage(addr, k1, seq.Bytes32{3})

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	assert.False(t, stage.Hash().IsZero())

	batch := db.NewBatch()
	require.NoError(t, stage.Commit(batch))
	require.NoError(t, batch.Write())

	reloaded := New(db)
	value, err := reloaded.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, seq.Bytes32{3}, value)

	// zero value deletes the key
	reloaded.SetStorage(addr, k2, seq.Bytes32{})
	batch = db.NewBatch()
	require.NoError(t, reloaded.Stage().Commit(batch))
	require.NoError(t, batch.Write())

	has, err := db.Has(StorageBucket.Key(storageKey{addr, k2}.dbKey()))
	require.NoError(t, err)
	assert.False(t, has)
}
