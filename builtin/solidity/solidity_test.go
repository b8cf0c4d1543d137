// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

type TestStruct struct {
	Field1 uint64
	Field2 uint64
	Addr1  seq.Address
	Amount *big.Int
}

func newTestContext() *Context {
	return NewContext(seq.Address{1}, state.New(nil))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext()
	mapping := NewMapping[seq.Uint64Key, *TestStruct](ctx, seq.Bytes32{1})

	empty, err := mapping.Get(1)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Equal(t, uint64(0), empty.Field1)

	exists, err := mapping.Exists(1)
	require.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{Field1: 100, Field2: 200, Addr1: seq.Address{7}, Amount: big.NewInt(5)}
	require.NoError(t, mapping.Set(1, value))

	got, err := mapping.Get(1)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	exists, _ = mapping.Exists(1)
	assert.True(t, exists)

	mapping.Delete(1)
	exists, _ = mapping.Exists(1)
	assert.False(t, exists)
}

func TestMappingValueType(t *testing.T) {
	ctx := newTestContext()
	mapping := NewMapping[seq.Address, seq.Address](ctx, seq.Bytes32{2})

	require.NoError(t, mapping.Set(seq.Address{1}, seq.Address{2}))
	got, err := mapping.Get(seq.Address{1})
	require.NoError(t, err)
	assert.Equal(t, seq.Address{2}, got)

	// other base positions do not collide
	other := NewMapping[seq.Address, seq.Address](ctx, seq.Bytes32{3})
	got, err = other.Get(seq.Address{1})
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestUint256(t *testing.T) {
	ctx := newTestContext()
	slot := NewUint256(ctx, seq.Bytes32{1})

	slot.Set(big.NewInt(1000))
	value, err := slot.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), value)

	assert.NoError(t, slot.Add(big.NewInt(500)))
	assert.NoError(t, slot.Sub(big.NewInt(200)))
	value, _ = slot.Get()
	assert.Equal(t, big.NewInt(1300), value)

	assert.EqualError(t, slot.Sub(big.NewInt(1301)), "uint256 underflow")
	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	assert.EqualError(t, slot.Add(huge), "uint256 overflow")
}

func TestUint64AndAddress(t *testing.T) {
	ctx := newTestContext()
	counter := NewUint64(ctx, seq.Bytes32{1})

	n, err := counter.Increment(3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	n, err = counter.Decrement(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	_, err = counter.Decrement(5)
	assert.Error(t, err)

	addr := NewAddress(ctx, seq.Bytes32{2})
	got, err := addr.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	addr.Set(seq.Address{9})
	got, _ = addr.Get()
	assert.Equal(t, seq.Address{9}, got)
}
