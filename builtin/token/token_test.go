// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
	"github.com/vechain/seqlock/state"
)

var (
	alice  = seq.BytesToAddress([]byte("alice"))
	bob    = seq.BytesToAddress([]byte("bob"))
	engine = seq.BytesToAddress([]byte("engine"))
)

func newToken(t *testing.T) *Token {
	tk := New(seq.BytesToAddress([]byte("token")), state.New(nil))
	require.NoError(t, tk.Mint(alice, big.NewInt(1000)))
	return tk
}

func balance(t *testing.T, tk *Token, addr seq.Address) int64 {
	bal, err := tk.BalanceOf(addr)
	require.NoError(t, err)
	return bal.Int64()
}

func TestTransfer(t *testing.T) {
	tk := newToken(t)

	require.NoError(t, tk.Transfer(alice, bob, big.NewInt(300)))
	assert.Equal(t, int64(700), balance(t, tk, alice))
	assert.Equal(t, int64(300), balance(t, tk, bob))

	err := tk.Transfer(bob, alice, big.NewInt(301))
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, int64(300), balance(t, tk, bob))

	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), supply.Int64())
}

func TestCustodyPullsWithAllowance(t *testing.T) {
	tk := newToken(t)
	custody := tk.Spender(engine)

	err := custody.TransferFrom(alice, engine, big.NewInt(100))
	assert.EqualError(t, err, "insufficient allowance")

	require.NoError(t, tk.Approve(alice, engine, big.NewInt(150)))
	require.NoError(t, custody.TransferFrom(alice, engine, big.NewInt(100)))

	allowance, err := tk.Allowance(alice, engine)
	require.NoError(t, err)
	assert.Equal(t, int64(50), allowance.Int64())

	bal, err := custody.BalanceOf(engine)
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal.Int64())

	require.NoError(t, custody.Transfer(engine, bob, big.NewInt(40)))
	assert.Equal(t, int64(40), balance(t, tk, bob))
}
