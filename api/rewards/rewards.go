// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/node"
	"github.com/vechain/seqlock/seq"
)

type Rewards struct {
	node *node.Node
}

type Summary struct {
	Index            *math.HexOrDecimal256 `json:"index"`
	Rate             *math.HexOrDecimal256 `json:"rate"`
	Liquidated       *math.HexOrDecimal256 `json:"liquidated"`
	Policy           string                `json:"policy"`
	Cutoff           string                `json:"cutoff"`
	TrustedSubmitter seq.Address           `json:"trustedSubmitter"`
	Precision        *math.HexOrDecimal256 `json:"precision"`
}

func New(n *node.Node) *Rewards {
	return &Rewards{n}
}

func (r *Rewards) handleGetSummary(w http.ResponseWriter, req *http.Request) error {
	params := r.node.Params()
	summary := &Summary{
		Policy:    params.Policy.String(),
		Cutoff:    params.Cutoff.String(),
		Precision: (*math.HexOrDecimal256)(new(big.Int).Set(seq.RewardPrecision)),
	}
	err := r.node.View(func(c *node.Contracts) error {
		index, err := c.Engine.RewardIndex()
		if err != nil {
			return err
		}
		rate, err := c.Engine.RewardRate()
		if err != nil {
			return err
		}
		liquidated, err := c.Engine.TotalRewardsLiquidated()
		if err != nil {
			return err
		}
		if summary.TrustedSubmitter, err = c.Engine.TrustedSubmitter(); err != nil {
			return err
		}
		summary.Index = (*math.HexOrDecimal256)(index)
		summary.Rate = (*math.HexOrDecimal256)(rate)
		summary.Liquidated = (*math.HexOrDecimal256)(liquidated)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, summary)
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /rewards").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetSummary))
}
