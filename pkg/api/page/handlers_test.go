package page

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwork/search-adapters/pkg/pageindex"
)

func newTestAPI(t *testing.T) *API {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "guide.md"), []byte("# Guide\n\nOnboarding steps for widgets.\n"), 0o644))

	idx, err := pageindex.New(pageindex.Config{
		WorkspaceRoot: root,
		IndexPath:     filepath.Join(t.TempDir(), "index.bleve"),
		IncludeGlob:   "**/*",
	})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	api, err := New(Config{Listen: ":0"}, idx, 30)
	require.NoError(t, err)
	return api
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	api.health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReindexThenSearch(t *testing.T) {
	api := newTestAPI(t)

	reindexReq := httptest.NewRequest(http.MethodPost, "/reindex", http.NoBody)
	reindexW := httptest.NewRecorder()
	api.reindex(reindexW, reindexReq)
	require.Equal(t, http.StatusOK, reindexW.Code)

	body, _ := json.Marshal(searchRequest{Query: "onboarding"})
	searchReq := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	searchW := httptest.NewRecorder()
	api.search(searchW, searchReq)

	require.Equal(t, http.StatusOK, searchW.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(searchW.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "guide.md", resp.Results[0].FilePath)
}

func TestSearch_InvalidQuery(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(searchRequest{Query: "a"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
