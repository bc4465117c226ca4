package officeindex

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// scanWorkspaceFiles walks root breadth-first, returning the absolute paths
// of office-file candidates in discovery order, bounded by maxScanDirectories
// and maxIndexedFiles. Unreadable directories are skipped and recorded as
// diagnostics rather than aborting the scan.
func scanWorkspaceFiles(ctx context.Context, root string, includePDF bool) ([]string, []string) {
	queue := []string{root}
	visited := map[string]bool{}
	var candidates []string
	var diagnostics []string

	for len(queue) > 0 && len(visited) < maxScanDirectories && len(candidates) < maxIndexedFiles {
		directory := queue[0]
		queue = queue[1:]
		if visited[directory] {
			continue
		}
		visited[directory] = true

		entries, err := os.ReadDir(directory)
		if err != nil {
			relative := relativeFilePath(root, directory)
			if relative == "" {
				relative = "."
			}
			slog.WarnContext(ctx, "skipping unreadable directory during office indexing", "directory", relative, "error", err)
			diagnostics = appendDiagnostic(diagnostics, "directory-unreadable:"+relative)
			continue
		}

		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
		})

		for _, entry := range entries {
			entryPath := filepath.Join(directory, entry.Name())

			if entry.IsDir() {
				if isIncludedDirectory(entry.Name()) {
					queue = append(queue, entryPath)
				}
				continue
			}

			if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "~$") {
				continue
			}
			if !isOfficeCandidate(entry.Name(), includePDF) {
				continue
			}

			candidates = append(candidates, entryPath)
			if len(candidates) >= maxIndexedFiles {
				break
			}
		}
	}

	return candidates, diagnostics
}

func isIncludedDirectory(name string) bool {
	normalized := strings.ToLower(name)
	if strings.HasPrefix(normalized, ".") {
		return false
	}
	return !excludedDirectoryNames[normalized]
}

func isOfficeCandidate(name string, includePDF bool) bool {
	extension := strings.ToLower(filepath.Ext(name))
	if officeFileExtensions[extension] {
		return true
	}
	return extension == ".pdf" && includePDF
}

func relativeFilePath(root, path string) string {
	relative, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	return filepath.ToSlash(relative)
}
