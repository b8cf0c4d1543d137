// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operator

import (
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
)

var (
	slotOperators = seq.BytesToBytes32([]byte("operators"))
	slotSigners   = seq.BytesToBytes32([]byte("operator-signers"))
	slotLastID    = seq.BytesToBytes32([]byte("operator-last-id"))
)

type Storage struct {
	operators *solidity.Mapping[seq.Uint64Key, *Operator]
	signers   *solidity.Mapping[seq.Address, *SignerEntry]
	lastID    *solidity.Uint64
}

func NewStorage(sctx *solidity.Context) *Storage {
	return &Storage{
		operators: solidity.NewMapping[seq.Uint64Key, *Operator](sctx, slotOperators),
		signers:   solidity.NewMapping[seq.Address, *SignerEntry](sctx, slotSigners),
		lastID:    solidity.NewUint64(sctx, slotLastID),
	}
}

func (s *Storage) getOperator(id uint64) (*Operator, error) {
	op, err := s.operators.Get(seq.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get operator")
	}
	return op, nil
}

func (s *Storage) setOperator(id uint64, op *Operator) error {
	if err := s.operators.Set(seq.Uint64Key(id), op); err != nil {
		return errors.Wrap(err, "failed to set operator")
	}
	return nil
}

func (s *Storage) getSigner(signer seq.Address) (*SignerEntry, error) {
	entry, err := s.signers.Get(signer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get signer")
	}
	return entry, nil
}

func (s *Storage) setSigner(signer seq.Address, entry *SignerEntry) error {
	if entry.State == KeyNone {
		s.signers.Delete(signer)
		return nil
	}
	if err := s.signers.Set(signer, entry); err != nil {
		return errors.Wrap(err, "failed to set signer")
	}
	return nil
}

// nextID allocates ids densely from 1.
func (s *Storage) nextID() (uint64, error) {
	return s.lastID.Increment(1)
}

func (s *Storage) lastAllocated() (uint64, error) {
	return s.lastID.Get()
}
