// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import "github.com/vechain/seqlock/builtin/locking"

type RangeType string

const (
	Epoch RangeType = "epoch"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Zero fields match everything.
type Filter struct {
	Names      []string `json:"names"`
	OperatorID uint64   `json:"operatorId"`
	Range      *Range   `json:"range"`
	Order      Order    `json:"order"`
	Options    *Options `json:"options"`
}

// Record is a stored engine event with its insertion sequence.
type Record struct {
	Seq uint64 `json:"seq"`
	*locking.Event
}
