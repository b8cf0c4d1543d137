// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"fmt"
	"strings"
)

// Policy selects how batch rewards reach operators.
type Policy uint8

const (
	// Flat credits units x rate straight to each named operator.
	Flat Policy = iota
	// ProRata pools the batch reward and spreads it over the aggregate stake through the global index.
	ProRata
)

func (p Policy) String() string {
	switch p {
	case Flat:
		return "flat"
	case ProRata:
		return "prorata"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy parses "flat" or "prorata".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return Flat, nil
	case "prorata", "pro-rata":
		return ProRata, nil
	}
	return 0, fmt.Errorf("unknown reward policy %q", s)
}

// Cutoff decides when an exiting operator stops accruing rewards.
type Cutoff uint8

const (
	// CutoffAfterDeactivation excludes epochs strictly after the deactivation epoch.
	CutoffAfterDeactivation Cutoff = iota
	// CutoffAtDeactivation excludes the deactivation epoch itself.
	CutoffAtDeactivation
)

func (c Cutoff) String() string {
	switch c {
	case CutoffAfterDeactivation:
		return "after"
	case CutoffAtDeactivation:
		return "at"
	default:
		return fmt.Sprintf("cutoff(%d)", uint8(c))
	}
}

// ParseCutoff parses "after" or "at".
func ParseCutoff(s string) (Cutoff, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "after":
		return CutoffAfterDeactivation, nil
	case "at":
		return CutoffAtDeactivation, nil
	}
	return 0, fmt.Errorf("unknown reward cutoff %q", s)
}

// Excludes reports whether epoch falls outside the accrual window of an operator deactivating at
// deactivationEpoch. Zero means not deactivating.
func (c Cutoff) Excludes(epoch, deactivationEpoch uint64) bool {
	if deactivationEpoch == 0 {
		return false
	}
	if c == CutoffAtDeactivation {
		return epoch >= deactivationEpoch
	}
	return epoch > deactivationEpoch
}
