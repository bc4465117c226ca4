package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReindex_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "full", body["mode"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","indexedFiles":3}`))
	}))
	defer srv.Close()

	err := runReindex(t.Context(), srv.URL, "full")
	assert.NoError(t, err)
}

func TestRunReindex_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"errorCode":"WORKSPACE_ROOT_NOT_FOUND"}`))
	}))
	defer srv.Close()

	err := runReindex(t.Context(), srv.URL, "incremental")
	assert.ErrorContains(t, err, "HTTP 503")
}
