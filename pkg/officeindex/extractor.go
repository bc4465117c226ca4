package officeindex

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

var legacyBinaryExtensions = map[string]bool{
	".doc":  true,
	".ppt":  true,
	".xls":  true,
}

// extractTextForFile runs the extractor chain for one file: a size gate,
// then the external ingest-attachment pipeline if configured, then the
// local OOXML reader for .docx/.pptx/.xlsx, then a path-only fallback for
// legacy binary formats and PDFs.
func extractTextForFile(ctx context.Context, cfg Config, path string) (string, SourceMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", SourceMeta{}, err
	}
	if info.Size() > maxBinaryFileBytes {
		return "", SourceMeta{Extractor: "path-only", Reason: "file-too-large"}, nil
	}

	content, meta := extractWithOpenSearch(ctx, cfg, path)
	if content != "" {
		return content, meta, nil
	}

	extension := strings.ToLower(filepath.Ext(path))
	if ooxmlExtensions[extension] {
		if local := extractOOXMLText(path); local != "" {
			return local, SourceMeta{Extractor: "local-ooxml"}, nil
		}
	}

	if legacyBinaryExtensions[extension] {
		return "", SourceMeta{Extractor: "path-only", Reason: "legacy-binary"}, nil
	}

	if extension == ".pdf" {
		return "", SourceMeta{Extractor: "path-only", Reason: "pdf-disabled-by-default"}, nil
	}

	return "", meta, nil
}
