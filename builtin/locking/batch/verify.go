// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batch

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/cache"
	"github.com/vechain/seqlock/seq"
)

// ErrBadSignature is returned when a batch does not recover to the trusted submitter.
var ErrBadSignature = errors.New("batch: bad signature")

type recovered struct {
	sig    string
	signer seq.Address
}

// Verifier recovers batch signers, caching by signing hash.
type Verifier struct {
	cache *cache.LRU[seq.Bytes32, recovered]
}

func NewVerifier(size int) (*Verifier, error) {
	c, err := cache.NewLRU[seq.Bytes32, recovered](size)
	if err != nil {
		return nil, err
	}
	return &Verifier{cache: c}, nil
}

// Recover returns the address that produced sig over hash.
func (v *Verifier) Recover(hash seq.Bytes32, sig []byte) (seq.Address, error) {
	if entry, ok := v.cache.Get(hash); ok && entry.sig == string(sig) {
		return entry.signer, nil
	}
	signer, err := recoverSigner(hash, sig)
	if err != nil {
		return seq.Address{}, err
	}
	v.cache.Add(hash, recovered{sig: string(sig), signer: signer})
	return signer, nil
}

// Verify checks that s is signed by trusted.
func (v *Verifier) Verify(s *Submission, chainID uint64, engine, trusted seq.Address) error {
	hash, err := s.SigningHash(chainID, engine)
	if err != nil {
		return err
	}
	signer, err := v.Recover(hash, s.Signature)
	if err != nil {
		return err
	}
	if trusted.IsZero() || signer != trusted {
		return errors.Wrapf(ErrBadSignature, "recovered %v", signer)
	}
	return nil
}

// Stats exposes the cache counters.
func (v *Verifier) Stats() *cache.Stats {
	return v.cache.Stats()
}

func recoverSigner(hash seq.Bytes32, sig []byte) (seq.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return seq.Address{}, errors.Wrap(ErrBadSignature, "invalid signature length")
	}
	normalized := append([]byte(nil), sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	r := new(big.Int).SetBytes(normalized[:32])
	sv := new(big.Int).SetBytes(normalized[32:64])
	// only the lower-s form is accepted
	if !crypto.ValidateSignatureValues(normalized[64], r, sv, true) {
		return seq.Address{}, errors.Wrap(ErrBadSignature, "invalid signature values")
	}
	pub, err := crypto.SigToPub(hash.Bytes(), normalized)
	if err != nil {
		return seq.Address{}, errors.Wrap(ErrBadSignature, err.Error())
	}
	return seq.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Sign signs s with key, for submitters and tests.
func Sign(s *Submission, chainID uint64, engine seq.Address, key *ecdsa.PrivateKey) error {
	hash, err := s.SigningHash(chainID, engine)
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return err
	}
	s.Signature = sig
	return nil
}
