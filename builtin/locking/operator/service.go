// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operator

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/locking/reward"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
)

type Service struct {
	repo *Repository
}

func New(sctx *solidity.Context) *Service {
	return &Service{repo: NewRepository(sctx)}
}

// GetOperator returns the record of id, empty if it was never allocated.
func (s *Service) GetOperator(id uint64) (*Operator, error) {
	return s.repo.getOperator(id)
}

// MustGet returns the record of id, or reverts if there is none.
func (s *Service) MustGet(id uint64) (*Operator, error) {
	op, err := s.repo.getOperator(id)
	if err != nil {
		return nil, err
	}
	if op.IsEmpty() {
		return nil, reverts.Newf("operator %d not found", id)
	}
	return op, nil
}

// LookupSigner returns the inverse map entry of signer.
func (s *Service) LookupSigner(signer seq.Address) (*SignerEntry, error) {
	return s.repo.getSigner(signer)
}

// ActiveCount returns the number of registered signing keys.
func (s *Service) ActiveCount() (uint64, error) {
	return s.repo.activeCount()
}

// Signers returns the registered signing keys in registry order.
func (s *Service) Signers() ([]seq.Address, error) {
	return s.repo.activeSigners()
}

// LastID returns the highest allocated id.
func (s *Service) LastID() (uint64, error) {
	return s.repo.storage.lastAllocated()
}

// Add allocates a new id for an active operator holding amount, signing with signer.
func (s *Service) Add(signer seq.Address, pubkey []byte, amount *big.Int, epoch uint64, checkpoint *big.Int) (uint64, *Operator, error) {
	entry, err := s.repo.getSigner(signer)
	if err != nil {
		return 0, nil, err
	}
	if entry.State != KeyNone {
		return 0, nil, reverts.Newf("signer %v already in use", signer)
	}

	id, err := s.repo.storage.nextID()
	if err != nil {
		return 0, nil, err
	}
	op := &Operator{
		Identity:          signer,
		Signer:            signer,
		PubKey:            pubkey,
		Locked:            new(big.Int).Set(amount),
		Delegated:         new(big.Int),
		Accrued:           reward.Zeroed(),
		DelegatorsAccrued: reward.Zeroed(),
		Checkpoint:        new(big.Int).Set(checkpoint),
		ActivationEpoch:   epoch,
		Status:            StatusActive,
	}
	if err := s.repo.bind(signer, id); err != nil {
		return 0, nil, err
	}
	if err := s.repo.updateOperator(id, op); err != nil {
		return 0, nil, err
	}
	return id, op, nil
}

// Update stores op as the record of id.
func (s *Service) Update(id uint64, op *Operator) error {
	return s.repo.updateOperator(id, op)
}

// Deactivate moves an active operator to exiting with the given exit epoch.
func (s *Service) Deactivate(id uint64, op *Operator, exitEpoch, now, withdrawalDelay uint64) error {
	if op.Status != StatusActive {
		return reverts.Newf("operator %d is not active", id)
	}
	if op.DeactivationEpoch != 0 {
		return reverts.Newf("operator %d already deactivating", id)
	}
	if exitEpoch == 0 {
		// zero marks "not exiting"
		return reverts.New("exit epoch must be after genesis")
	}
	if err := s.repo.retire(op.Signer, id); err != nil {
		return err
	}
	op.Status = StatusExiting
	op.DeactivationEpoch = exitEpoch
	op.DeactivationTime = now
	op.ClaimableAfter = now + withdrawalDelay
	return s.repo.updateOperator(id, op)
}

// Release frees the key of an exiting operator and closes its record.
func (s *Service) Release(id uint64, op *Operator) error {
	if op.Status != StatusExiting {
		return reverts.Newf("operator %d is not exiting", id)
	}
	if err := s.repo.free(op.Signer); err != nil {
		return err
	}
	op.Status = StatusUnlocked
	op.Locked = new(big.Int)
	op.Delegated = new(big.Int)
	op.Signer = seq.Address{}
	op.PubKey = nil
	return s.repo.updateOperator(id, op)
}

// Rotate moves an active operator onto a new unused signing key, freeing the old one.
func (s *Service) Rotate(id uint64, op *Operator, signer seq.Address, pubkey []byte) error {
	if op.Status != StatusActive {
		return reverts.Newf("operator %d is not active", id)
	}
	entry, err := s.repo.getSigner(signer)
	if err != nil {
		return err
	}
	if entry.State != KeyNone {
		return reverts.Newf("signer %v already in use", signer)
	}
	if err := s.repo.registry.Remove(op.Signer); err != nil {
		return err
	}
	if err := s.repo.free(op.Signer); err != nil {
		return err
	}
	if err := s.repo.bind(signer, id); err != nil {
		return err
	}
	op.Signer = signer
	op.PubKey = pubkey
	return s.repo.updateOperator(id, op)
}
