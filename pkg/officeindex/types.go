// Package officeindex maintains an in-process, incrementally refreshed
// search index over a live tree of office documents (Word, PowerPoint,
// Excel, and optionally PDF).
package officeindex

// RefreshMode selects whether a refresh may reuse unchanged files (incremental)
// or must re-stat and re-hash everything (full).
type RefreshMode string

const (
	// RefreshFull forces every candidate file to be re-stat'd and re-hashed.
	RefreshFull RefreshMode = "full"
	// RefreshIncremental reuses entries whose mtime/size/content-hash are unchanged.
	RefreshIncremental RefreshMode = "incremental"
)

// SourceMeta records which extractor produced a document's content, and why
// it fell back when it did.
type SourceMeta struct {
	Extractor string `json:"extractor"`
	Reason    string `json:"reason,omitempty"`
	Pipeline  string `json:"pipeline,omitempty"`
	MatchKind string `json:"matchKind,omitempty"`
}

// IndexedDocument is one office file's cached extraction state plus the
// metadata needed to decide, on the next refresh, whether it can be reused
// without touching the file again.
type IndexedDocument struct {
	FilePath    string
	Title       string
	Subtitle    string
	Content     string
	SourceMeta  SourceMeta
	MTimeNs     int64
	SizeBytes   int64
	ContentHash string
}

// RefreshSummary reports what a single refresh pass did.
type RefreshSummary struct {
	Status       string      `json:"status"`
	Mode         RefreshMode `json:"mode"`
	Reason       string      `json:"reason,omitempty"`
	IndexedFiles int         `json:"indexedFiles"`
	ScannedFiles int         `json:"scannedFiles"`
	ReusedFiles  int         `json:"reusedFiles"`
	UpdatedFiles int         `json:"updatedFiles"`
	RemovedFiles int         `json:"removedFiles"`
	FailedFiles  int         `json:"failedFiles"`
	Diagnostics  []string    `json:"diagnostics"`
	TookMs       int64       `json:"tookMs"`
}

// SearchResult is one ranked hit returned from a search.
type SearchResult struct {
	ID        string     `json:"id"`
	FilePath  string     `json:"filePath"`
	Title     string     `json:"title"`
	Subtitle  string      `json:"subtitle"`
	Snippet   string     `json:"snippet,omitempty"`
	Score     int        `json:"score"`
	SourceMeta SourceMeta `json:"sourceMeta"`
}

const (
	maxScanDirectories  = 400
	maxIndexedFiles     = 2000
	maxBinaryFileBytes  = 16_000_000
	maxXMLMemberBytes   = 3_000_000
	maxExtractedChars   = 160_000
	maxDiagnostics      = 50
	hashChunkBytes      = 1_048_576

	defaultRefreshIntervalSeconds = 25
	defaultHTTPTimeoutSeconds     = 8
)

var officeFileExtensions = map[string]bool{
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".xls":  true,
	".xlsx": true,
}

var ooxmlExtensions = map[string]bool{
	".docx": true,
	".pptx": true,
	".xlsx": true,
}

var excludedDirectoryNames = map[string]bool{
	".git":        true,
	".next":       true,
	"node_modules": true,
	"dist":        true,
	"build":       true,
	"coverage":    true,
	".turbo":      true,
	".cache":      true,
}

func appendDiagnostic(diagnostics []string, message string) []string {
	if len(diagnostics) >= maxDiagnostics {
		return diagnostics
	}
	return append(diagnostics, message)
}
