// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/node"
	"github.com/vechain/seqlock/seq"
)

type Tokens struct {
	node *node.Node
}

// Account is the token position of one address.
type Account struct {
	Balance   *math.HexOrDecimal256 `json:"balance"`
	Allowance *math.HexOrDecimal256 `json:"allowance"` // granted to the engine
	Nonce     uint64                `json:"nonce"`
}

func New(n *node.Node) *Tokens {
	return &Tokens{n}
}

func (t *Tokens) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := seq.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	engine := t.node.Params().Address
	acc := &Account{}
	err = t.node.View(func(c *node.Contracts) error {
		balance, err := c.Token.BalanceOf(*addr)
		if err != nil {
			return err
		}
		allowance, err := c.Token.Allowance(*addr, engine)
		if err != nil {
			return err
		}
		acc.Balance = (*math.HexOrDecimal256)(balance)
		acc.Allowance = (*math.HexOrDecimal256)(allowance)
		return nil
	})
	if err != nil {
		return err
	}
	if acc.Nonce, err = t.node.Nonce(*addr); err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAccount))
}
