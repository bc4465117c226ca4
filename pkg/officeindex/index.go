package officeindex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrWorkspaceRootNotFound is returned by Refresh when the configured
// workspace root does not exist or is not a directory.
var ErrWorkspaceRootNotFound = errors.New("workspace root directory not found")

// Index is the concurrency-safe, incrementally refreshed search index over
// a workspace of office documents. The zero value is not usable; build one
// with New.
//
// Two locks guard it: refreshMu serializes refreshes (so concurrent search
// requests never trigger overlapping scans), and mu protects only the
// brief snapshot-read / swap-write of the document map itself.
type Index struct {
	cfg Config

	refreshMu sync.Mutex

	mu                 sync.RWMutex
	byPath             map[string]IndexedDocument
	lastIndexedAt      time.Time
	lastRefreshMode    RefreshMode
	lastRefreshSummary RefreshSummary
	lastRefreshError   string

	mirror Mirror
}

// Mirror is an optional pre-scan hook that populates the workspace root
// from an external source (for example, an S3 bucket) before each refresh.
// A nil Mirror disables the step entirely.
type Mirror interface {
	Sync(ctx context.Context, workspaceRoot string) []string
}

// New builds an empty Index over the given configuration. mirror may be nil.
func New(cfg Config, mirror Mirror) *Index {
	return &Index{
		cfg:    cfg,
		byPath: map[string]IndexedDocument{},
		mirror: mirror,
	}
}

// Snapshot is the read-only state exposed to /health.
type Snapshot struct {
	IndexedFiles       int
	LastIndexedAt      time.Time
	LastRefreshMode    RefreshMode
	LastRefreshSummary RefreshSummary
	LastRefreshError   string
}

// Snapshot returns the current health-relevant state under a brief read lock.
func (idx *Index) Snapshot() Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return Snapshot{
		IndexedFiles:       len(idx.byPath),
		LastIndexedAt:      idx.lastIndexedAt,
		LastRefreshMode:    idx.lastRefreshMode,
		LastRefreshSummary: idx.lastRefreshSummary,
		LastRefreshError:   idx.lastRefreshError,
	}
}

// Refresh performs one refresh pass. When mode is incremental and
// bypassInterval is false, a refresh that ran more recently than
// cfg.RefreshIntervalSeconds ago is skipped and reported as such rather
// than re-scanning the workspace.
func (idx *Index) Refresh(ctx context.Context, mode RefreshMode, bypassInterval bool) (RefreshSummary, error) {
	idx.refreshMu.Lock()
	defer idx.refreshMu.Unlock()

	started := time.Now()
	var diagnostics []string

	idx.mu.RLock()
	currentSize := len(idx.byPath)
	previous := make(map[string]IndexedDocument, len(idx.byPath))
	for k, v := range idx.byPath {
		previous[k] = v
	}
	lastIndexedAt := idx.lastIndexedAt
	idx.mu.RUnlock()

	shouldSkip := mode == RefreshIncremental &&
		!bypassInterval &&
		!lastIndexedAt.IsZero() &&
		time.Since(lastIndexedAt) < time.Duration(idx.cfg.RefreshIntervalSeconds)*time.Second

	if shouldSkip {
		return RefreshSummary{
			Status:       "skipped",
			Mode:         mode,
			Reason:       "refresh-interval",
			IndexedFiles: currentSize,
			Diagnostics:  []string{},
			TookMs:       time.Since(started).Milliseconds(),
		}, nil
	}

	if idx.mirror != nil {
		for _, warning := range idx.mirror.Sync(ctx, idx.cfg.WorkspaceRoot) {
			diagnostics = appendDiagnostic(diagnostics, warning)
		}
	}

	info, err := os.Stat(idx.cfg.WorkspaceRoot)
	if err != nil || !info.IsDir() {
		message := fmt.Sprintf("%s: %s", ErrWorkspaceRootNotFound, idx.cfg.WorkspaceRoot)
		idx.mu.Lock()
		idx.lastRefreshError = message
		idx.mu.Unlock()
		return RefreshSummary{}, fmt.Errorf("%w: %s", ErrWorkspaceRootNotFound, idx.cfg.WorkspaceRoot)
	}

	scannedPaths, scanDiagnostics := scanWorkspaceFiles(ctx, idx.cfg.WorkspaceRoot, idx.cfg.IncludePDF)
	for _, warning := range scanDiagnostics {
		diagnostics = appendDiagnostic(diagnostics, warning)
	}

	updated := make(map[string]IndexedDocument, len(scannedPaths))
	reusedFiles, updatedFiles, failedFiles := 0, 0, 0

	for _, absolutePath := range scannedPaths {
		relativePath := relativeFilePath(idx.cfg.WorkspaceRoot, absolutePath)
		if relativePath == "" {
			continue
		}

		info, err := os.Stat(absolutePath)
		if err != nil {
			slog.WarnContext(ctx, "skipping file with unreadable stat", "path", relativePath, "error", err)
			failedFiles++
			diagnostics = appendDiagnostic(diagnostics, "file-stat-failed:"+relativePath)
			continue
		}

		mtimeNs := info.ModTime().UnixNano()
		sizeBytes := info.Size()

		existing, hasExisting := previous[relativePath]
		if mode == RefreshIncremental && hasExisting && existing.MTimeNs == mtimeNs && existing.SizeBytes == sizeBytes {
			updated[relativePath] = existing
			reusedFiles++
			continue
		}

		contentHash, err := computeFileHash(absolutePath)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable file during hash pass", "path", relativePath, "error", err)
			failedFiles++
			diagnostics = appendDiagnostic(diagnostics, "file-hash-failed:"+relativePath)
			continue
		}

		if mode == RefreshIncremental && hasExisting && existing.ContentHash == contentHash {
			reused := existing
			reused.MTimeNs = mtimeNs
			reused.SizeBytes = sizeBytes
			updated[relativePath] = reused
			reusedFiles++
			continue
		}

		content, sourceMeta, err := extractTextForFile(ctx, idx.cfg, absolutePath)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable file during extraction", "path", relativePath, "error", err)
			failedFiles++
			diagnostics = appendDiagnostic(diagnostics, "file-extract-failed:"+relativePath)
			continue
		}

		updated[relativePath] = IndexedDocument{
			FilePath:    relativePath,
			Title:       fileNameOf(absolutePath),
			Subtitle:    relativePath,
			Content:     content,
			SourceMeta:  sourceMeta,
			MTimeNs:     mtimeNs,
			SizeBytes:   sizeBytes,
			ContentHash: contentHash,
		}
		updatedFiles++
	}

	removedFiles := len(previous) - len(updated)
	if removedFiles < 0 {
		removedFiles = 0
	}

	if diagnostics == nil {
		diagnostics = []string{}
	}

	summary := RefreshSummary{
		Status:       "ok",
		Mode:         mode,
		IndexedFiles: len(updated),
		ScannedFiles: len(scannedPaths),
		ReusedFiles:  reusedFiles,
		UpdatedFiles: updatedFiles,
		RemovedFiles: removedFiles,
		FailedFiles:  failedFiles,
		Diagnostics:  diagnostics,
		TookMs:       time.Since(started).Milliseconds(),
	}

	idx.mu.Lock()
	idx.byPath = updated
	idx.lastIndexedAt = time.Now()
	idx.lastRefreshMode = mode
	idx.lastRefreshSummary = summary
	idx.lastRefreshError = ""
	idx.mu.Unlock()

	return summary, nil
}

// Search scores every indexed document against query and returns the
// top `limit` results ordered by score descending, then file path
// descending for ties.
func (idx *Index) Search(query string, limit int) []SearchResult {
	needleLower := strings.ToLower(query)

	idx.mu.RLock()
	docs := make([]IndexedDocument, 0, len(idx.byPath))
	for _, doc := range idx.byPath {
		docs = append(docs, doc)
	}
	idx.mu.RUnlock()

	results := make([]SearchResult, 0, len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.FilePath
		}

		ranked := computeRankedMatch(doc.FilePath, title, doc.Content, needleLower)
		if ranked == nil {
			continue
		}

		sourceMeta := doc.SourceMeta
		sourceMeta.MatchKind = ranked.matchKind
		if sourceMeta.Extractor == "" {
			sourceMeta.Extractor = "unknown"
		}

		subtitle := doc.Subtitle
		if subtitle == "" {
			subtitle = doc.FilePath
		}

		results = append(results, SearchResult{
			ID:         doc.FilePath,
			FilePath:   doc.FilePath,
			Title:      title,
			Subtitle:   subtitle,
			Snippet:    ranked.snippet,
			Score:      ranked.score,
			SourceMeta: sourceMeta,
		})
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func sortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].FilePath > results[j].FilePath
	})
}
