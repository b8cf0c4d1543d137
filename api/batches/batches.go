// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package batches

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/node"
)

type Batches struct {
	node *node.Node
}

type Result struct {
	Epoch uint64 `json:"epoch"`
}

func New(n *node.Node) *Batches {
	return &Batches{n}
}

func (b *Batches) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body batch.JSONSubmission
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	epoch, err := b.node.SubmitBatch(body.ToSubmission())
	if err != nil {
		return utils.EngineError(err)
	}
	return utils.WriteJSON(w, &Result{Epoch: epoch})
}

func (b *Batches) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /batches").
		HandlerFunc(utils.WrapHandlerFunc(b.handleSubmit))
}
