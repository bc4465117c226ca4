package office

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwork/search-adapters/pkg/officeindex"
)

func writeTestDocx(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := zip.NewWriter(file)
	member, err := writer.Create("word/document.xml")
	require.NoError(t, err)
	_, err = member.Write([]byte(`<w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
}

func newTestAPI(t *testing.T) (*API, string) {
	root := t.TempDir()
	writeTestDocx(t, filepath.Join(root, "Budget Plan.docx"), "quarterly budget numbers")

	cfg := officeindex.Config{WorkspaceRoot: root, RefreshIntervalSeconds: 25, ExtractTimeoutSeconds: 8}
	idx := officeindex.New(cfg, nil)

	api, err := New(Config{Listen: ":0"}, idx, cfg, nil)
	require.NoError(t, err)
	return api, root
}

func TestHealth(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	api.health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	_, present := raw["externalExtractorReachable"]
	assert.False(t, present, "externalExtractorReachable must be omitted when no external extractor is configured")

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "officeindex-adapter", resp.Service)
}

type fakeProbe struct{ reachable bool }

func (f fakeProbe) Reachable(_ context.Context) bool { return f.reachable }

func TestHealth_ExternalExtractorConfigured(t *testing.T) {
	root := t.TempDir()
	cfg := officeindex.Config{WorkspaceRoot: root, RefreshIntervalSeconds: 25}
	idx := officeindex.New(cfg, nil)

	api, err := New(Config{Listen: ":0"}, idx, cfg, fakeProbe{reachable: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	api.health(w, req)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.ExternalExtractorReachable)
	assert.True(t, *resp.ExternalExtractorReachable)
}

func TestSearch_ValidQuery(t *testing.T) {
	api, _ := newTestAPI(t)

	body, _ := json.Marshal(searchRequest{Query: "budget plan"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Budget Plan.docx", resp.Results[0].Title)
}

func TestSearch_InvalidQuery(t *testing.T) {
	api, _ := newTestAPI(t)

	body, _ := json.Marshal(searchRequest{Query: "a"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReindex_InvalidMode(t *testing.T) {
	api, _ := newTestAPI(t)

	mode := "bogus"
	body, _ := json.Marshal(reindexRequest{Mode: &mode})
	req := httptest.NewRequest(http.MethodPost, "/reindex", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.reindex(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReindex_MissingWorkspaceRoot(t *testing.T) {
	cfg := officeindex.Config{WorkspaceRoot: filepath.Join(t.TempDir(), "missing"), RefreshIntervalSeconds: 25}
	idx := officeindex.New(cfg, nil)
	api, err := New(Config{Listen: ":0"}, idx, cfg, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/reindex", http.NoBody)
	w := httptest.NewRecorder()
	api.reindex(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var errBody struct {
		ErrorCode string `json:"errorCode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	assert.Equal(t, "WORKSPACE_ROOT_NOT_FOUND", errBody.ErrorCode)
}

func TestReindex_Success(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/reindex", http.NoBody)
	w := httptest.NewRecorder()
	api.reindex(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp reindexResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.IndexedFiles)
}
