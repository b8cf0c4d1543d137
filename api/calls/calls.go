// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package calls

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/node"
)

// SignedCall is the HTTP form of node.SignedCall.
type SignedCall struct {
	Method    string          `json:"method"`
	Nonce     uint64          `json:"nonce"`
	Args      json.RawMessage `json:"args"`
	Signature hexutil.Bytes   `json:"signature"`
}

func (c *SignedCall) toCall() *node.SignedCall {
	return &node.SignedCall{
		Call: node.Call{
			Method: c.Method,
			Nonce:  c.Nonce,
			Args:   []byte(c.Args),
		},
		Signature: c.Signature,
	}
}

// FromCall converts a signed call to its HTTP form.
func FromCall(sc *node.SignedCall) *SignedCall {
	return &SignedCall{
		Method:    sc.Method,
		Nonce:     sc.Nonce,
		Args:      json.RawMessage(sc.Args),
		Signature: sc.Signature,
	}
}

type Calls struct {
	node *node.Node
}

func New(n *node.Node) *Calls {
	return &Calls{n}
}

func (c *Calls) handleApply(w http.ResponseWriter, req *http.Request) error {
	var body SignedCall
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Method == "" {
		return utils.BadRequest(errors.New("method required"))
	}
	receipt, err := c.node.Apply(body.toCall())
	if err != nil {
		return utils.EngineError(err)
	}
	return utils.WriteJSON(w, receipt)
}

func (c *Calls) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /calls").
		HandlerFunc(utils.WrapHandlerFunc(c.handleApply))
}
