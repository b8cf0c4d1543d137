// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/seqlock/builtin/locking/batch"
	"github.com/vechain/seqlock/builtin/reverts"
)

func serve(err error) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return err })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestWrapHandlerFunc(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(BadRequest(errors.New("bad"))).Code)
	assert.Equal(t, http.StatusNotFound, serve(NotFound(errors.New("missing"))).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(errors.New("boom")).Code)

	rec := serve(HTTPError(errors.New("teapot"), http.StatusTeapot))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "teapot\n", rec.Body.String())
}

func TestEngineError(t *testing.T) {
	assert.Nil(t, EngineError(nil))
	assert.Equal(t, http.StatusBadRequest, serve(EngineError(reverts.New("nope"))).Code)
	assert.Equal(t, http.StatusForbidden, serve(EngineError(errors.Wrap(batch.ErrBadSignature, "recovered"))).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(EngineError(errors.New("disk"))).Code)
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))

	_, err := ParseUint64("x", "id")
	assert.Equal(t, http.StatusBadRequest, serve(err).Code)
	n, err := ParseUint64("42", "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}
