// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batch

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
)

var engine = seq.BytesToAddress([]byte("locking"))

func newSubmission() *Submission {
	return &Submission{
		Epoch:       1,
		WindowStart: 100,
		WindowEnd:   200,
		Payer:       seq.BytesToAddress([]byte("payer")),
		Signers:     []seq.Address{seq.BytesToAddress([]byte{1}), seq.BytesToAddress([]byte{2})},
		Units:       []*big.Int{big.NewInt(10), big.NewInt(0)},
	}
}

func TestCheckShape(t *testing.T) {
	s := newSubmission()
	require.NoError(t, s.CheckShape())

	s.Units = s.Units[:1]
	assert.True(t, reverts.IsRevertErr(s.CheckShape()))

	s = newSubmission()
	s.Units[1] = big.NewInt(-1)
	assert.True(t, reverts.IsRevertErr(s.CheckShape()))
}

func TestRLPRoundTrip(t *testing.T) {
	s := newSubmission()
	s.Signature = []byte{1, 2, 3}
	data, err := rlp.EncodeToBytes(s)
	require.NoError(t, err)

	var decoded Submission
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, s.Epoch, decoded.Epoch)
	assert.Equal(t, s.Signers, decoded.Signers)
	assert.Equal(t, int64(10), decoded.Units[0].Int64())
	assert.Equal(t, s.Signature, decoded.Signature)
}

func TestJSONForm(t *testing.T) {
	body := `{"epoch":3,"windowStart":5,"windowEnd":9,"payer":"0x0000000000000000000000000000000000000001",` +
		`"signers":["0x0000000000000000000000000000000000000002"],"units":["0x10"],"signature":"0x0102"}`
	var j JSONSubmission
	require.NoError(t, json.Unmarshal([]byte(body), &j))

	s := j.ToSubmission()
	assert.Equal(t, uint64(3), s.Epoch)
	assert.Equal(t, seq.BytesToAddress([]byte{1}), s.Payer)
	assert.Equal(t, int64(16), s.Units[0].Int64())
	assert.Equal(t, []byte{1, 2}, s.Signature)

	back := s.ToJSON()
	assert.Equal(t, j.Signers, back.Signers)
	assert.Equal(t, "16", (*big.Int)(back.Units[0]).String())
}

func TestSigningHashBindsContext(t *testing.T) {
	s := newSubmission()
	h1, err := s.SigningHash(1, engine)
	require.NoError(t, err)
	h2, err := s.SigningHash(2, engine)
	require.NoError(t, err)
	h3, err := s.SigningHash(1, seq.BytesToAddress([]byte("other")))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)

	// the signature is not part of the payload
	s.Signature = []byte{9}
	h4, _ := s.SigningHash(1, engine)
	assert.Equal(t, h1, h4)

	s.Units[0] = big.NewInt(11)
	h5, _ := s.SigningHash(1, engine)
	assert.NotEqual(t, h1, h5)
}

func TestVerify(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	trusted := seq.Address(crypto.PubkeyToAddress(key.PublicKey))
	v, err := NewVerifier(8)
	require.NoError(t, err)

	s := newSubmission()
	require.NoError(t, Sign(s, 1, engine, key))
	require.NoError(t, v.Verify(s, 1, engine, trusted))

	// cached path
	require.NoError(t, v.Verify(s, 1, engine, trusted))
	hit, _ := v.Stats().Counts()
	assert.Equal(t, int64(1), hit)

	// 27/28 style recovery id
	legacy := *s
	legacy.Signature = append([]byte(nil), s.Signature...)
	legacy.Signature[64] += 27
	require.NoError(t, v.Verify(&legacy, 1, engine, trusted))

	// the high-s twin recovers the same key but is rejected
	n := crypto.S256().Params().N
	high := *s
	high.Signature = append([]byte(nil), s.Signature...)
	sv := new(big.Int).Sub(n, new(big.Int).SetBytes(s.Signature[32:64]))
	sv.FillBytes(high.Signature[32:64])
	high.Signature[64] ^= 1
	err = v.Verify(&high, 1, engine, trusted)
	assert.True(t, errors.Is(err, ErrBadSignature))

	err = v.Verify(s, 2, engine, trusted)
	assert.True(t, errors.Is(err, ErrBadSignature))

	err = v.Verify(s, 1, engine, seq.BytesToAddress([]byte("nobody")))
	assert.True(t, errors.Is(err, ErrBadSignature))

	err = v.Verify(s, 1, engine, seq.Address{})
	assert.True(t, errors.Is(err, ErrBadSignature))

	short := newSubmission()
	short.Signature = []byte{1}
	assert.True(t, errors.Is(v.Verify(short, 1, engine, trusted), ErrBadSignature))
}
