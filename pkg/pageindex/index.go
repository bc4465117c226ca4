package pageindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openwork/search-adapters/pkg/searchutil"
)

// ErrWorkspaceRootNotFound is returned when the configured workspace root
// does not exist or is not a directory.
var ErrWorkspaceRootNotFound = errors.New("workspace root directory not found")

type fileMeta struct {
	title string
}

// Index is a background-maintained, Bleve-backed full-text index over a
// workspace's editable text documents.
type Index struct {
	cfg    Config
	engine *bleveEngine

	refreshMu sync.Mutex

	mu            sync.RWMutex
	byPath        map[string]fileMeta
	lastIndexedAt time.Time
	lastSummary   RefreshSummary
	lastErr       error
}

// New opens (or creates) the Bleve index described by cfg.
func New(cfg Config) (*Index, error) {
	engine, err := openBleveEngine(cfg.IndexPath)
	if err != nil {
		return nil, err
	}

	return &Index{
		cfg:    cfg,
		engine: engine,
		byPath: make(map[string]fileMeta),
	}, nil
}

// Close releases the underlying Bleve index.
func (idx *Index) Close() error {
	return idx.engine.close()
}

// Snapshot describes the index's most recent refresh outcome.
type Snapshot struct {
	IndexedFiles  int
	LastIndexedAt time.Time
	LastError     error
	WorkspaceRoot string
}

func (idx *Index) Snapshot() Snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return Snapshot{
		IndexedFiles:  len(idx.byPath),
		LastIndexedAt: idx.lastIndexedAt,
		LastError:     idx.lastErr,
		WorkspaceRoot: idx.cfg.WorkspaceRoot,
	}
}

// Refresh crawls the workspace root and rebuilds the Bleve index, removing
// documents for files that no longer exist or no longer match the configured
// globs.
func (idx *Index) Refresh(ctx context.Context) (RefreshSummary, error) {
	idx.refreshMu.Lock()
	defer idx.refreshMu.Unlock()

	started := time.Now()

	info, err := os.Stat(idx.cfg.WorkspaceRoot)
	if err != nil || !info.IsDir() {
		wrapped := fmt.Errorf("%w: %s", ErrWorkspaceRootNotFound, idx.cfg.WorkspaceRoot)
		idx.mu.Lock()
		idx.lastErr = wrapped
		idx.mu.Unlock()
		return RefreshSummary{}, wrapped
	}

	files, diagnostics := scanWorkspaceFiles(ctx, idx.cfg.WorkspaceRoot, idx.cfg.IncludeGlob, idx.cfg.ExcludeGlob)

	seen := make(map[string]fileMeta, len(files))

	for _, f := range files {
		select {
		case <-ctx.Done():
			diagnostics = appendDiagnostic(diagnostics, "refresh-canceled")
			return idx.finishRefresh(seen, diagnostics, started, ctx.Err())
		default:
		}

		content, err := readFileCapped(f.AbsPath, maxFileContentBytes)
		if err != nil {
			diagnostics = appendDiagnostic(diagnostics, "read-failed:"+f.RelPath)
			continue
		}

		plainText, title := plainTextAndTitle(f.RelPath, content, filepath.Base(f.RelPath))

		if err := idx.engine.indexDoc(f.RelPath, pageDocument{
			Path:    f.RelPath,
			Title:   title,
			Content: plainText,
		}); err != nil {
			diagnostics = appendDiagnostic(diagnostics, "index-failed:"+f.RelPath)
			continue
		}

		seen[f.RelPath] = fileMeta{title: title}
	}

	idx.mu.RLock()
	removed := 0
	for path := range idx.byPath {
		if _, ok := seen[path]; !ok {
			removed++
		}
	}
	idx.mu.RUnlock()

	for path := range idx.byPath {
		if _, ok := seen[path]; !ok {
			if err := idx.engine.remove(path); err != nil {
				diagnostics = appendDiagnostic(diagnostics, "remove-failed:"+path)
			}
		}
	}

	summary, finErr := idx.finishRefresh(seen, diagnostics, started, nil)
	summary.RemovedFiles = removed
	return summary, finErr
}

func (idx *Index) finishRefresh(seen map[string]fileMeta, diagnostics []string, started time.Time, err error) (RefreshSummary, error) {
	idx.mu.Lock()
	idx.byPath = seen
	idx.lastIndexedAt = time.Now()
	idx.lastErr = err
	summary := RefreshSummary{
		IndexedFiles: len(seen),
		DurationMs:   time.Since(started).Milliseconds(),
		Diagnostics:  diagnostics,
	}
	idx.lastSummary = summary
	idx.mu.Unlock()

	return summary, err
}

// Search ranks files by a blend of filename/path textual match and Bleve
// relevance score over content, matching the original adapter's intent that
// a path match (+40) outranks a weak content match (+16).
func (idx *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	needleLower := strings.ToLower(query)

	bleveResult, err := idx.engine.search(query, maxScanResults)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(bleveResult.Hits))

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, hit := range bleveResult.Hits {
		relPath := hit.ID

		title := relPath
		if meta, ok := idx.byPath[relPath]; ok && meta.title != "" {
			title = meta.title
		}
		if f, ok := hit.Fields["title"].(string); ok && f != "" {
			title = f
		}

		pathScore := maxInt(
			searchutil.ScoreTextMatch(relPath, needleLower),
			searchutil.ScoreTextMatch(filepath.Base(relPath), needleLower),
		)

		contentScore := bleveScoreToInt(hit.Score)

		var snippet string
		for _, frags := range hit.Fragments {
			if len(frags) > 0 {
				snippet = frags[0]
				break
			}
		}

		score := maxInt(pathScore+pathMatchBonus, contentScore+contentMatchBonus)
		if pathScore == 0 && contentScore == 0 {
			continue
		}

		results = append(results, Result{
			ID:       relPath,
			FilePath: relPath,
			Title:    title,
			Subtitle: relPath,
			Snippet:  snippet,
			Score:    score,
		})
	}

	sortResults(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].FilePath > results[j].FilePath
	})
}

// bleveScoreToInt scales Bleve's floating relevance score into the same
// rough integer range searchutil.ScoreTextMatch uses, so the two scores
// combine sensibly.
func bleveScoreToInt(score float64) int {
	scaled := int(score * 100)
	if scaled < 0 {
		return 0
	}
	return scaled
}

func maxInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func readFileCapped(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("file exceeds size cap: %s", path)
	}
	return os.ReadFile(path)
}
