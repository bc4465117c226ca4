package officeindex

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// extractWithOpenSearch POSTs a file's bytes to an OpenSearch- or
// Elasticsearch-compatible ingest-attachment pipeline's _simulate endpoint
// and returns the extracted plain text. It is a no-op (empty text, a
// "opensearch-disabled" meta) when no base URL is configured.
func extractWithOpenSearch(ctx context.Context, cfg Config, path string) (string, SourceMeta) {
	if cfg.OpenSearchURL == "" {
		return "", SourceMeta{Extractor: "opensearch-disabled"}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", SourceMeta{Extractor: "opensearch-error", Reason: "read-failed"}
	}
	if int64(len(raw)) > maxBinaryFileBytes {
		return "", SourceMeta{Extractor: "opensearch-skipped", Reason: "file-too-large"}
	}

	pipeline := cfg.OpenSearchPipeline
	endpoint := fmt.Sprintf("%s/_ingest/pipeline/%s/_simulate", cfg.OpenSearchURL, pipeline)

	body := openSearchSimulateRequest{
		Docs: []openSearchSimulateDoc{{
			Source: openSearchSimulateSource{
				Data:         base64.StdEncoding.EncodeToString(raw),
				ResourceName: fileNameOf(path),
			},
		}},
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", SourceMeta{Extractor: "opensearch-error", Reason: "encode-failed"}
	}

	timeout := time.Duration(cfg.ExtractTimeoutSeconds) * time.Second
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", SourceMeta{Extractor: "opensearch-error", Reason: "request-build-failed"}
	}
	req.Header.Set("Content-Type", "application/json")
	if authHeader := openSearchAuthHeader(cfg); authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", SourceMeta{Extractor: "opensearch-error", Reason: "request-failed"}
	}
	defer resp.Body.Close()

	var decoded openSearchSimulateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", SourceMeta{Extractor: "opensearch-error", Reason: "invalid-json"}
	}

	if len(decoded.Docs) == 0 {
		return "", SourceMeta{Extractor: "opensearch-error", Reason: "missing-docs"}
	}

	content := decoded.Docs[0].Doc.Source.Attachment.Content
	if content == "" {
		return "", SourceMeta{Extractor: "opensearch-empty"}
	}

	if len(content) > maxExtractedChars {
		content = content[:maxExtractedChars]
	}

	return content, SourceMeta{Extractor: "opensearch", Pipeline: pipeline}
}

func openSearchAuthHeader(cfg Config) string {
	if cfg.OpenSearchUsername == "" || cfg.OpenSearchPassword == "" {
		return ""
	}
	token := base64.StdEncoding.EncodeToString([]byte(cfg.OpenSearchUsername + ":" + cfg.OpenSearchPassword))
	return "Basic " + token
}

func fileNameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

type openSearchSimulateRequest struct {
	Docs []openSearchSimulateDoc `json:"docs"`
}

type openSearchSimulateDoc struct {
	Source openSearchSimulateSource `json:"_source"`
}

type openSearchSimulateSource struct {
	Data         string `json:"data"`
	ResourceName string `json:"resource_name"`
}

type openSearchSimulateResponse struct {
	Docs []struct {
		Doc struct {
			Source struct {
				Attachment struct {
					Content string `json:"content"`
				} `json:"attachment"`
			} `json:"_source"`
		} `json:"doc"`
	} `json:"docs"`
}
