package pageindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanWorkspaceFiles_RespectsIncludeAndExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/a.ts", "export const a = 1;")
	writeFile(t, root, "src/a.test.ts", "test file")
	writeFile(t, root, "node_modules/dep/index.js", "should be excluded by directory name")

	files, _ := scanWorkspaceFiles(t.Context(), root, "**/*.ts", "**/*.test.ts")

	require.Len(t, files, 1)
	assert.Equal(t, filepath.ToSlash("src/a.ts"), files[0].RelPath)
}

func TestScanWorkspaceFiles_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/readme.md", "kept")
	writeFile(t, root, ".git/objects/pack-file", "excluded")

	files, _ := scanWorkspaceFiles(t.Context(), root, "**/*", "")

	for _, f := range files {
		assert.NotContains(t, f.RelPath, ".git/")
	}
}
