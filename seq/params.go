// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package seq

import (
	"math/big"
)

// Constants of the locking engine.
const (
	// MaxBps the denominator of commission rates.
	MaxBps = uint32(10000)

	// NoticeEpochs epochs between a voluntary unlock and its exit epoch.
	NoticeEpochs = uint64(1)

	// DefaultWithdrawalDelay seconds between unlock and claim.
	DefaultWithdrawalDelay = uint64(7 * 24 * 3600)

	// DefaultMaxOperators the active operator threshold.
	DefaultMaxOperators = uint64(100)
)

var (
	// RewardPrecision scales the global reward index.
	RewardPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(25), nil)

	// Ether one token in its smallest unit.
	Ether = big.NewInt(1e18)

	// DefaultMinLock minimum collateral of a join.
	DefaultMinLock = new(big.Int).Mul(big.NewInt(20_000), Ether)
	// DefaultMaxLock maximum self stake of an operator.
	DefaultMaxLock = new(big.Int).Mul(big.NewInt(1_000_000), Ether)
)
