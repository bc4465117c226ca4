package chatindex_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwork/search-adapters/pkg/chatindex"
)

const schema = `
CREATE TABLE "User" ("id" TEXT PRIMARY KEY, "displayName" TEXT);
CREATE TABLE "Channel" ("id" TEXT PRIMARY KEY, "name" TEXT, "slug" TEXT);
CREATE TABLE "Conversation" (
  "id" TEXT PRIMARY KEY,
  "type" TEXT,
  "createdAt" TEXT,
  "channelId" TEXT,
  "dmUserAId" TEXT,
  "dmUserBId" TEXT
);
CREATE TABLE "Message" (
  "id" TEXT PRIMARY KEY,
  "conversationId" TEXT,
  "senderId" TEXT,
  "body" TEXT,
  "createdAt" TEXT
);
`

func seedDatabase(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(schema)
	require.NoError(t, err)

	statements := []string{
		`INSERT INTO "User" VALUES ('u-alice', 'Alice')`,
		`INSERT INTO "User" VALUES ('u-bob', 'Bob')`,
		`INSERT INTO "Channel" VALUES ('ch-eng', 'engineering', 'eng')`,
		`INSERT INTO "Conversation" VALUES ('conv-eng', 'CHANNEL', '2024-01-01T00:00:00Z', 'ch-eng', NULL, NULL)`,
		`INSERT INTO "Conversation" VALUES ('conv-dm', 'DM', '2024-01-02T00:00:00Z', NULL, 'u-alice', 'u-bob')`,
		`INSERT INTO "Message" VALUES ('msg-1', 'conv-eng', 'u-alice', 'deploying the budget dashboard today', '2024-01-03T00:00:00Z')`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	store, err := chatindex.Open(filepath.Join(t.TempDir(), "missing.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.False(t, store.Reachable(context.Background()))

	_, err = store.Search(context.Background(), "u-alice", "budget", 40)
	assert.ErrorIs(t, err, chatindex.ErrDatabaseNotFound)
}

func TestReachable_ExistingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")
	seedDatabase(t, dbPath)

	store, err := chatindex.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.True(t, store.Reachable(context.Background()))
}

func TestSearch_UnknownUser(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")
	seedDatabase(t, dbPath)

	store, err := chatindex.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Search(context.Background(), "does-not-exist", "budget", 40)
	assert.ErrorIs(t, err, chatindex.ErrUserNotFound)
}

func TestSearch_FindsChannel(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")
	seedDatabase(t, dbPath)

	store, err := chatindex.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	results, err := store.Search(context.Background(), "u-alice", "eng", 40)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	var sawChannel bool
	for _, r := range results {
		if r.Kind == chatindex.KindChannel {
			sawChannel = true
			assert.Equal(t, "#engineering", r.Title)
		}
	}
	assert.True(t, sawChannel)
}

func TestSearch_FindsMessageByBody(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")
	seedDatabase(t, dbPath)

	store, err := chatindex.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	results, err := store.Search(context.Background(), "u-alice", "budget dashboard", 40)
	require.NoError(t, err)

	var found bool
	for _, r := range results {
		if r.Kind == chatindex.KindMessage && r.MessageID == "msg-1" {
			found = true
			assert.Contains(t, r.Snippet, "budget dashboard")
		}
	}
	assert.True(t, found)
}
