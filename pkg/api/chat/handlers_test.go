package chat

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwork/search-adapters/pkg/chatindex"
)

func newTestAPI(t *testing.T) *API {
	dbPath := filepath.Join(t.TempDir(), "chat.db")

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE "User" ("id" TEXT PRIMARY KEY, "displayName" TEXT);
		CREATE TABLE "Channel" ("id" TEXT PRIMARY KEY, "name" TEXT, "slug" TEXT);
		CREATE TABLE "Conversation" ("id" TEXT PRIMARY KEY, "type" TEXT, "createdAt" TEXT, "channelId" TEXT, "dmUserAId" TEXT, "dmUserBId" TEXT);
		CREATE TABLE "Message" ("id" TEXT PRIMARY KEY, "conversationId" TEXT, "senderId" TEXT, "body" TEXT, "createdAt" TEXT);
		INSERT INTO "User" VALUES ('u-alice', 'Alice');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	store, err := chatindex.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	api, err := New(Config{Listen: ":0"}, store)
	require.NoError(t, err)
	return api
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	api.health(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.DBReachable)
}

func TestHealth_DatabaseMissing(t *testing.T) {
	store, err := chatindex.Open(filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	api, err := New(Config{Listen: ":0"}, store)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	api.health(w, req)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.DBReachable)
}

func TestSearch_DatabaseMissing(t *testing.T) {
	store, err := chatindex.Open(filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	api, err := New(Config{Listen: ":0"}, store)
	require.NoError(t, err)

	body, _ := json.Marshal(searchRequest{Query: "hello", UserID: "u-alice"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearch_MissingUser(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(searchRequest{Query: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_UnknownUser(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(searchRequest{Query: "hello", UserID: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch_ValidUser(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(searchRequest{Query: "hello", UserID: "u-alice"})
	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
