// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"math/big"
)

// Accrual is a reward balance that tells "never credited" apart from "owes zero".
// Both read as zero owed.
type Accrual struct {
	Touched bool
	Amount  *big.Int
}

// Owed returns the amount owed.
func (a Accrual) Owed() *big.Int {
	if !a.Touched || a.Amount == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(a.Amount)
}

// Add returns the accrual credited with amount.
func (a Accrual) Add(amount *big.Int) Accrual {
	return Accrual{Touched: true, Amount: new(big.Int).Add(a.Owed(), amount)}
}

// Zeroed returns a touched accrual owing nothing.
func Zeroed() Accrual {
	return Accrual{Touched: true, Amount: new(big.Int)}
}
