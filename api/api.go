// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/seqlock/api/batches"
	"github.com/vechain/seqlock/api/calls"
	"github.com/vechain/seqlock/api/events"
	nodeAPI "github.com/vechain/seqlock/api/node"
	"github.com/vechain/seqlock/api/operators"
	"github.com/vechain/seqlock/api/rewards"
	"github.com/vechain/seqlock/api/timeline"
	"github.com/vechain/seqlock/api/tokens"
	"github.com/vechain/seqlock/log"
	"github.com/vechain/seqlock/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	EventsLimit    uint64
	// toggled at runtime by the admin service, nil disables request logs
	EnableReqLogger *atomic.Bool
	EnableMetrics   bool
	Version         string
}

// New return api router
func New(n *node.Node, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}

	router := mux.NewRouter()

	ops := operators.New(n)
	ops.Mount(router, "/operators")
	ops.MountSigners(router, "/signers")
	timeline.New(n).
		Mount(router, "/timeline")
	rewards.New(n).
		Mount(router, "/rewards")
	tokens.New(n).
		Mount(router, "/tokens")
	events.New(n.Events(), opts.EventsLimit).
		Mount(router, "/events")
	batches.New(n).
		Mount(router, "/batches")
	calls.New(n).
		Mount(router, "/calls")
	nodeAPI.New(n, opts.Version).
		Mount(router, "/node")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)
	}
	return handler.ServeHTTP
}
