package pageindex

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// scannedFile is one candidate document discovered during a crawl.
type scannedFile struct {
	AbsPath      string
	RelPath      string
	IsEditable   bool
}

// scanWorkspaceFiles performs a breadth-first crawl of root, returning every
// non-directory entry with an editable text extension whose relative path
// matches includeGlob and does not match excludeGlob, up to PageIndex's own
// scan budgets (maxScanDirectories directories, maxScanResults files).
func scanWorkspaceFiles(ctx context.Context, root, includeGlob, excludeGlob string) ([]scannedFile, []string) {
	var diagnostics []string

	queue := []string{root}
	visited := make(map[string]struct{})
	var files []scannedFile

	for len(queue) > 0 && len(visited) < maxScanDirectories {
		select {
		case <-ctx.Done():
			return files, appendDiagnostic(diagnostics, "scan-canceled")
		default:
		}

		dir := queue[0]
		queue = queue[1:]

		if _, ok := visited[dir]; ok {
			continue
		}
		visited[dir] = struct{}{}

		entries, err := os.ReadDir(dir)
		if err != nil {
			diagnostics = appendDiagnostic(diagnostics, "scan-dir-failed:"+relativeFilePath(root, dir))
			continue
		}

		for _, entry := range entries {
			absPath := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				if isIncludedDirectory(entry.Name()) {
					queue = append(queue, absPath)
				}
				continue
			}

			name := entry.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
				continue
			}

			relPath := relativeFilePath(root, absPath)

			if !matchesGlobs(relPath, includeGlob, excludeGlob) {
				continue
			}
			if !isEditableTextDocument(absPath) {
				continue
			}

			files = append(files, scannedFile{
				AbsPath:    absPath,
				RelPath:    relPath,
				IsEditable: isEditableTextDocument(absPath),
			})

			if len(files) >= maxScanResults {
				return files, diagnostics
			}
		}
	}

	return files, diagnostics
}

func isIncludedDirectory(name string) bool {
	normalized := strings.ToLower(name)
	if strings.HasPrefix(normalized, ".") {
		return false
	}
	_, excluded := excludedDirectoryNames[normalized]
	return !excluded
}

func isEditableTextDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := editableTextExtensions[ext]
	return ok
}

func matchesGlobs(relPath, includeGlob, excludeGlob string) bool {
	relPath = filepath.ToSlash(relPath)

	if includeGlob != "" {
		matched, err := doublestar.Match(includeGlob, relPath)
		if err != nil || !matched {
			return false
		}
	}

	if excludeGlob != "" {
		matched, err := doublestar.Match(excludeGlob, relPath)
		if err == nil && matched {
			return false
		}
	}

	return true
}

func relativeFilePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
