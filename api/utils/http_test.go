// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapHandlerFunc(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(cause), http.StatusBadRequest, "boom\n"},
		{"forbidden", Forbidden(cause), http.StatusForbidden, "boom\n"},
		{"not found", NotFound(cause), http.StatusNotFound, "boom\n"},
		{"conflict", Conflict(cause), http.StatusConflict, "boom\n"},
		{"no cause", HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
		{"plain", cause, http.StatusInternalServerError, "boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestStatusOf(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, http.StatusConflict, StatusOf(Conflict(cause)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(cause))
	assert.ErrorIs(t, Forbidden(cause), cause)
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, M{"a": 1}))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"a\":1}\n", rec.Body.String())
}

func TestParseUint(t *testing.T) {
	v, err := ParseUint("", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	v, err = ParseUint("42", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)

	_, err = ParseUint("-1", 7)
	assert.Error(t, err)
}
