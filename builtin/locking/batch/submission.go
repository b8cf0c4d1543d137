// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package batch defines the signed reward submission that advances the epoch.
package batch

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/seq"
)

// Submission is one periodic batch of performance units.
type Submission struct {
	Epoch       uint64
	WindowStart uint64
	WindowEnd   uint64
	Payer       seq.Address
	Signers     []seq.Address
	Units       []*big.Int
	Signature   []byte
}

type submissionBody struct {
	Epoch       uint64
	WindowStart uint64
	WindowEnd   uint64
	Payer       seq.Address
	Signers     []seq.Address
	Units       []*big.Int
	Signature   []byte
}

// EncodeRLP implements rlp.Encoder.
func (s *Submission) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, (*submissionBody)(s))
}

// DecodeRLP implements rlp.Decoder.
func (s *Submission) DecodeRLP(stream *rlp.Stream) error {
	var body submissionBody
	if err := stream.Decode(&body); err != nil {
		return err
	}
	*s = Submission(body)
	return nil
}

// Len returns the number of entries.
func (s *Submission) Len() int {
	return len(s.Signers)
}

// CheckShape rejects mismatched arrays and negative units.
func (s *Submission) CheckShape() error {
	if len(s.Signers) != len(s.Units) {
		return reverts.Newf("batch arrays differ in length: %d signers, %d units", len(s.Signers), len(s.Units))
	}
	for i, u := range s.Units {
		if u == nil || u.Sign() < 0 {
			return reverts.Newf("batch entry %d has invalid units", i)
		}
	}
	return nil
}

// JSONSubmission is the HTTP form of a Submission.
type JSONSubmission struct {
	Epoch       uint64                  `json:"epoch"`
	WindowStart uint64                  `json:"windowStart"`
	WindowEnd   uint64                  `json:"windowEnd"`
	Payer       seq.Address             `json:"payer"`
	Signers     []seq.Address           `json:"signers"`
	Units       []*math.HexOrDecimal256 `json:"units"`
	Signature   hexutil.Bytes           `json:"signature"`
}

// ToSubmission converts the HTTP form.
func (j *JSONSubmission) ToSubmission() *Submission {
	units := make([]*big.Int, len(j.Units))
	for i, u := range j.Units {
		if u != nil {
			units[i] = (*big.Int)(u)
		}
	}
	return &Submission{
		Epoch:       j.Epoch,
		WindowStart: j.WindowStart,
		WindowEnd:   j.WindowEnd,
		Payer:       j.Payer,
		Signers:     append([]seq.Address(nil), j.Signers...),
		Units:       units,
		Signature:   append([]byte(nil), j.Signature...),
	}
}

// ToJSON converts s to its HTTP form.
func (s *Submission) ToJSON() *JSONSubmission {
	units := make([]*math.HexOrDecimal256, len(s.Units))
	for i, u := range s.Units {
		if u != nil {
			units[i] = (*math.HexOrDecimal256)(new(big.Int).Set(u))
		}
	}
	return &JSONSubmission{
		Epoch:       s.Epoch,
		WindowStart: s.WindowStart,
		WindowEnd:   s.WindowEnd,
		Payer:       s.Payer,
		Signers:     append([]seq.Address(nil), s.Signers...),
		Units:       units,
		Signature:   append(hexutil.Bytes(nil), s.Signature...),
	}
}
