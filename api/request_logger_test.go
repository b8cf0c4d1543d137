// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/seqlock/log"
)

func TestRequestLoggerHandler(t *testing.T) {
	var out bytes.Buffer
	logger := log.NewLogger(log.JSONHandler(&out))

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = string(body)
		w.WriteHeader(http.StatusTeapot)
	})

	var enabled atomic.Bool
	handler := RequestLoggerHandler(next, logger, &enabled)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/calls", strings.NewReader(`{"method":"join"}`)))
	assert.Equal(t, `{"method":"join"}`, seen)
	assert.Empty(t, out.String())

	enabled.Store(true)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/calls", strings.NewReader(`{"method":"unlock"}`)))
	assert.Equal(t, `{"method":"unlock"}`, seen)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, out.String(), `"URI":"/calls"`)
	assert.Contains(t, out.String(), `"Status":418`)
	assert.Contains(t, out.String(), `unlock`)
}
