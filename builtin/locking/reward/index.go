// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward holds the global reward index and the settlement arithmetic.
package reward

import (
	"math/big"

	"github.com/vechain/seqlock/builtin/solidity"
	"github.com/vechain/seqlock/seq"
)

var (
	slotGlobalIndex = seq.BytesToBytes32([]byte("reward-global-index"))
	slotRate        = seq.BytesToBytes32([]byte("reward-rate-per-unit"))
	slotLiquidated  = seq.BytesToBytes32([]byte("reward-liquidated"))
	slotSnapshots   = seq.BytesToBytes32([]byte("reward-index-snapshots"))
)

// Index is the global reward-per-stake accumulator. It never decreases.
type Index struct {
	global     *solidity.Uint256
	rate       *solidity.Uint256
	liquidated *solidity.Uint256
	snapshots  *solidity.Mapping[seq.Uint64Key, *big.Int]
}

func New(sctx *solidity.Context) *Index {
	return &Index{
		global:     solidity.NewUint256(sctx, slotGlobalIndex),
		rate:       solidity.NewUint256(sctx, slotRate),
		liquidated: solidity.NewUint256(sctx, slotLiquidated),
		snapshots:  solidity.NewMapping[seq.Uint64Key, *big.Int](sctx, slotSnapshots),
	}
}

// Value returns the current index.
func (i *Index) Value() (*big.Int, error) {
	return i.global.Get()
}

// Distribute spreads total over aggregate stake and returns the new index.
func (i *Index) Distribute(total, aggregate *big.Int) (*big.Int, error) {
	inc, err := IndexIncrement(total, aggregate)
	if err != nil {
		return nil, err
	}
	if inc.Sign() > 0 {
		if err := i.global.Add(inc); err != nil {
			return nil, errOverflow
		}
	}
	return i.global.Get()
}

// Record keeps the current index as the value at the end of epoch.
func (i *Index) Record(epoch uint64) error {
	v, err := i.global.Get()
	if err != nil {
		return err
	}
	if v.Sign() == 0 {
		return nil
	}
	return i.snapshots.Set(seq.Uint64Key(epoch), v)
}

// At returns the index as it was at the end of epoch.
func (i *Index) At(epoch uint64) (*big.Int, error) {
	return i.snapshots.Get(seq.Uint64Key(epoch))
}

// Rate returns the reward paid per performance unit.
func (i *Index) Rate() (*big.Int, error) {
	return i.rate.Get()
}

func (i *Index) SetRate(rate *big.Int) {
	i.rate.Set(rate)
}

// Liquidated returns the total reward paid out so far.
func (i *Index) Liquidated() (*big.Int, error) {
	return i.liquidated.Get()
}

// AddLiquidated records amount as paid out.
func (i *Index) AddLiquidated(amount *big.Int) error {
	return i.liquidated.Add(amount)
}
