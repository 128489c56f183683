package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	payload := fixture{
		Repos: map[string]repoEntry{
			"acme/widget": {FullName: "acme/widget", StargazersCount: json.RawMessage(`42`)},
		},
		Status: map[string]int{"acme/limited": http.StatusForbidden},
	}
	h := newRouter(payload, zerolog.Nop(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/repos/Acme/Widget", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"full_name":"acme/widget","html_url":"","stargazers_count":42}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/repos/acme/limited", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/repos/acme/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
