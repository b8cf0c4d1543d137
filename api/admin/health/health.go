// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/seqlock/api/utils"
	"github.com/vechain/seqlock/node"
)

type Status struct {
	Healthy       bool   `json:"healthy"`
	Initialized   bool   `json:"initialized"`
	Epoch         uint64 `json:"epoch"`
	LastWindowEnd uint64 `json:"lastWindowEnd"`
	// seconds since the end of the last settled window, absent before the first batch
	BatchLag *uint64 `json:"batchLag,omitempty"`
}

// Health reports whether the node is initialized and batches keep arriving.
type Health struct {
	node        *node.Node
	maxBatchLag time.Duration
}

// New creates the health API. A zero maxBatchLag disables the batch freshness check.
func New(n *node.Node, maxBatchLag time.Duration) *Health {
	return &Health{node: n, maxBatchLag: maxBatchLag}
}

// Status evaluates the node against maxBatchLag.
func (h *Health) Status(maxBatchLag time.Duration) (*Status, error) {
	initialized, err := h.node.Initialized()
	if err != nil {
		return nil, err
	}
	st := &Status{Initialized: initialized}
	err = h.node.View(func(c *node.Contracts) (err error) {
		if st.Epoch, err = c.Engine.Epoch(); err != nil {
			return
		}
		st.LastWindowEnd, err = c.Engine.LastWindowEnd()
		return
	})
	if err != nil {
		return nil, err
	}

	fresh := maxBatchLag == 0
	if st.LastWindowEnd > 0 {
		var lag uint64
		if now := h.node.Now(); now > st.LastWindowEnd {
			lag = now - st.LastWindowEnd
		}
		st.BatchLag = &lag
		fresh = fresh || time.Duration(lag)*time.Second <= maxBatchLag
	}
	st.Healthy = initialized && fresh
	return st, nil
}

func (h *Health) handleGet(w http.ResponseWriter, r *http.Request) error {
	maxBatchLag := h.maxBatchLag
	if q := r.URL.Query().Get("maxBatchLag"); q != "" {
		d, err := time.ParseDuration(q)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "maxBatchLag"))
		}
		maxBatchLag = d
	}

	st, err := h.Status(maxBatchLag)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	if st.Healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, st)
}

func (h *Health) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGet))
}
