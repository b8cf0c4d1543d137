// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operator

import (
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/builtin/locking/signers"
	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
)

// Repository keeps records, the inverse signer map and the ordered registry in step.
type Repository struct {
	storage  *Storage
	registry *signers.Registry
}

func NewRepository(sctx *solidity.Context) *Repository {
	return &Repository{
		storage:  NewStorage(sctx),
		registry: signers.New(sctx),
	}
}

func (r *Repository) getOperator(id uint64) (*Operator, error) {
	return r.storage.getOperator(id)
}

func (r *Repository) updateOperator(id uint64, op *Operator) error {
	return r.storage.setOperator(id, op)
}

func (r *Repository) getSigner(signer seq.Address) (*SignerEntry, error) {
	return r.storage.getSigner(signer)
}

// bind registers signer for id in both the registry and the inverse map.
func (r *Repository) bind(signer seq.Address, id uint64) error {
	if err := r.registry.Insert(signer); err != nil {
		return err
	}
	if err := r.storage.setSigner(signer, &SignerEntry{State: KeyBound, OperatorID: id}); err != nil {
		return errors.Wrap(err, "failed to bind signer")
	}
	return nil
}

// retire drops signer from the registry but keeps it reserved for id.
func (r *Repository) retire(signer seq.Address, id uint64) error {
	if err := r.registry.Remove(signer); err != nil {
		return err
	}
	return r.storage.setSigner(signer, &SignerEntry{State: KeyRemoved, OperatorID: id})
}

// free makes signer usable by any future join.
func (r *Repository) free(signer seq.Address) error {
	return r.storage.setSigner(signer, &SignerEntry{})
}

func (r *Repository) activeCount() (uint64, error) {
	return r.registry.Len()
}

func (r *Repository) activeSigners() ([]seq.Address, error) {
	return r.registry.All()
}
