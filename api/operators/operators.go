// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/builtin/reverts"
	"github.com/vechain/seqlock/node"
	"github.com/vechain/seqlock/seq"
)

type Operators struct {
	node *node.Node
}

func New(n *node.Node) *Operators {
	return &Operators{n}
}

func (o *Operators) getOperator(id uint64) (*Operator, error) {
	op, err := o.node.Operator(id)
	if err != nil {
		if reverts.IsRevertErr(err) {
			return nil, utils.NotFound(err)
		}
		return nil, err
	}

	var view *Operator
	err = o.node.View(func(c *node.Contracts) error {
		controller, err := c.Engine.Controller(id)
		if err != nil {
			return err
		}
		view = convertOperator(id, controller, op)
		epoch, err := c.Engine.Epoch()
		if err != nil {
			return err
		}
		if view.Eligible, err = c.Engine.IsEligible(id, epoch); err != nil {
			return err
		}
		// nothing is pending once the stake is released
		if split, err := c.Engine.PendingReward(id); err == nil {
			view.Pending = &PendingReward{
				Operator:   hexOrDecimal(split.Operator),
				Delegators: hexOrDecimal(split.Delegators),
			}
		} else if !reverts.IsRevertErr(err) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (o *Operators) handleGetOperator(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
	if err != nil {
		return err
	}
	view, err := o.getOperator(id)
	if err != nil {
		return utils.EngineError(err)
	}
	return utils.WriteJSON(w, view)
}

func (o *Operators) handleFindBySigner(w http.ResponseWriter, req *http.Request) error {
	signer, err := seq.ParseAddress(req.URL.Query().Get("signer"))
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "signer"))
	}

	var id uint64
	err = o.node.View(func(c *node.Contracts) error {
		id, _, err = c.Engine.OperatorBySigner(*signer)
		return err
	})
	if err != nil {
		if reverts.IsRevertErr(err) {
			return utils.NotFound(err)
		}
		return err
	}
	view, err := o.getOperator(id)
	if err != nil {
		return utils.EngineError(err)
	}
	return utils.WriteJSON(w, view)
}

func (o *Operators) handleGetSigner(w http.ResponseWriter, req *http.Request) error {
	signer, err := seq.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	entry := &SignerEntry{Signer: *signer, State: keyState(0)}
	err = o.node.View(func(c *node.Contracts) error {
		id, e, err := c.Engine.OperatorBySigner(*signer)
		if err != nil {
			if reverts.IsRevertErr(err) {
				return nil
			}
			return err
		}
		entry.State = keyState(e.State)
		entry.OperatorID = id
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, entry)
}

func (o *Operators) handleListSigners(w http.ResponseWriter, req *http.Request) error {
	var signers []seq.Address
	err := o.node.View(func(c *node.Contracts) (err error) {
		signers, err = c.Engine.Signers()
		return
	})
	if err != nil {
		return err
	}
	if signers == nil {
		signers = []seq.Address{}
	}
	return utils.WriteJSON(w, signers)
}

func (o *Operators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Queries("signer", "{signer}").
		Name("GET /operators?signer").
		HandlerFunc(utils.WrapHandlerFunc(o.handleFindBySigner))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /operators/{id}").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetOperator))
}

// MountSigners serves the active signer set under pathPrefix.
func (o *Operators) MountSigners(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /signers").
		HandlerFunc(utils.WrapHandlerFunc(o.handleListSigners))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /signers/{address}").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetSigner))
}
