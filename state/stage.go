// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/kv"
	"github.com/vechain/seqlock/seq"
)

// Stage abstracts pending storage changes.
type Stage struct {
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.order)
}

// Hash computes a digest of the changes in write order.
func (s *Stage) Hash() seq.Bytes32 {
	return seq.Blake2bFn(func(w io.Writer) {
		for _, key := range s.order {
			w.Write(key.dbKey())
			w.Write(s.changes[key])
		}
	})
}

// Commit writes all changes into the putter, usually a batch.
// Empty values delete the key.
func (s *Stage) Commit(putter kv.Putter) error {
	bucket := StorageBucket.NewPutter(putter)
	for _, key := range s.order {
		value := s.changes[key]
		var err error
		if len(value) == 0 {
			err = bucket.Delete(key.dbKey())
		} else {
			err = bucket.Put(key.dbKey(), value)
		}
		if err != nil {
			return errors.Wrap(err, "commit storage")
		}
	}
	return nil
}
