// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package timeline

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/node"
)

type Summary struct {
	Epoch            uint64                `json:"epoch"`
	TotalAmount      *math.HexOrDecimal256 `json:"totalAmount"`
	TotalCount       uint64                `json:"totalCount"`
	ExitsInFlight    uint64                `json:"exitsInFlight"`
	LockedCollateral *math.HexOrDecimal256 `json:"lockedCollateral"`
	LastWindowEnd    uint64                `json:"lastWindowEnd"`
}

type Delta struct {
	Epoch     uint64                `json:"epoch"`
	AmountIn  *math.HexOrDecimal256 `json:"amountIn"`
	AmountOut *math.HexOrDecimal256 `json:"amountOut"`
	CountIn   uint64                `json:"countIn"`
	CountOut  uint64                `json:"countOut"`
}

type Timeline struct {
	node *node.Node
}

func New(n *node.Node) *Timeline {
	return &Timeline{n}
}

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

func (t *Timeline) handleGetSummary(w http.ResponseWriter, req *http.Request) error {
	summary := &Summary{}
	err := t.node.View(func(c *node.Contracts) (err error) {
		engine := c.Engine
		if summary.Epoch, err = engine.Epoch(); err != nil {
			return
		}
		totals, err := engine.Totals()
		if err != nil {
			return
		}
		summary.TotalAmount = hexOrDecimal(totals.Amount)
		summary.TotalCount = totals.Count
		if summary.ExitsInFlight, err = engine.ExitsInFlight(); err != nil {
			return
		}
		locked, err := engine.LockedCollateral()
		if err != nil {
			return
		}
		summary.LockedCollateral = hexOrDecimal(locked)
		summary.LastWindowEnd, err = engine.LastWindowEnd()
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, summary)
}

func (t *Timeline) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	epoch, err := utils.ParseUint64(mux.Vars(req)["epoch"], "epoch")
	if err != nil {
		return err
	}
	delta := &Delta{Epoch: epoch}
	err = t.node.View(func(c *node.Contracts) error {
		d, err := c.Engine.PendingDelta(epoch)
		if err != nil {
			return err
		}
		delta.AmountIn = hexOrDecimal(d.AmountIn)
		delta.AmountOut = hexOrDecimal(d.AmountOut)
		delta.CountIn = d.CountIn
		delta.CountOut = d.CountOut
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, delta)
}

func (t *Timeline) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /timeline").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetSummary))
	sub.Path("/pending/{epoch}").
		Methods(http.MethodGet).
		Name("GET /timeline/pending/{epoch}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetPending))
}
