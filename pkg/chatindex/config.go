package chatindex

import (
	"os"
	"strings"
)

// ResolveDatabasePath returns the SQLite file path to open, honoring
// CHATINDEX_DATABASE_PATH and falling back to ./runtime/chatindex/dev.db
// when unset. The fallback is relative to the process working directory.
func ResolveDatabasePath() string {
	configured := strings.TrimSpace(os.Getenv("CHATINDEX_DATABASE_PATH"))
	if configured != "" {
		return configured
	}
	return "./runtime/chatindex/dev.db"
}
