// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/seqlock/api/admin/apilogs"
	"github.com/vechain/seqlock/api/admin/health"
	"github.com/vechain/seqlock/api/admin/loglevel"
	"github.com/vechain/seqlock/node"
)

// Options of the operator facing admin service.
type Options struct {
	LogLevel    *slog.LevelVar
	APILogs     *atomic.Bool
	MaxBatchLag time.Duration
}

// New mounts loglevel, apilogs and health under /admin.
func New(n *node.Node, opts Options) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(opts.LogLevel).Mount(sub, "/loglevel")
	apilogs.New(opts.APILogs).Mount(sub, "/apilogs")
	health.New(n, opts.MaxBatchLag).Mount(sub, "/health")

	return handlers.CompressHandler(router).ServeHTTP
}
