// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/seqlock/api/admin"
	"github.com/vechain/seqlock/co"
	"github.com/vechain/seqlock/node"
)

// StartServer serves handler on addr until the returned stop func is called.
func StartServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// StartAdminServer serves the admin routes of n, returning the /admin base url.
func StartAdminServer(addr string, n *node.Node, opts admin.Options) (string, func(), error) {
	url, stop, err := StartServer(addr, admin.New(n, opts))
	if err != nil {
		return "", nil, errors.WithMessage(err, "admin")
	}
	return url + "admin", stop, nil
}
