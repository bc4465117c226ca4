package office

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openwork/search-adapters/pkg/api/httpx"
	"github.com/openwork/search-adapters/pkg/officeindex"
	"github.com/openwork/search-adapters/pkg/searchutil"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

type searchResponse struct {
	Query       string                     `json:"query"`
	Total       int                        `json:"total"`
	TookMs      int64                      `json:"tookMs"`
	Results     []officeindex.SearchResult `json:"results"`
	Degraded    bool                       `json:"degraded,omitempty"`
	Diagnostics []string                   `json:"diagnostics,omitempty"`
}

type reindexRequest struct {
	Mode *string `json:"mode"`
}

type reindexResponse struct {
	Status       string               `json:"status"`
	Mode         officeindex.RefreshMode `json:"mode"`
	IndexedFiles int                  `json:"indexedFiles"`
	ScannedFiles int                  `json:"scannedFiles"`
	ReusedFiles  int                  `json:"reusedFiles"`
	UpdatedFiles int                  `json:"updatedFiles"`
	RemovedFiles int                  `json:"removedFiles"`
	FailedFiles  int                  `json:"failedFiles"`
	Diagnostics  []string             `json:"diagnostics"`
	TookMs       int64                `json:"tookMs"`
}

type healthResponse struct {
	Status                     string                    `json:"status"`
	Service                    string                    `json:"service"`
	IndexedFiles               int                       `json:"indexedFiles"`
	LastIndexedAt              *int64                    `json:"lastIndexedAt"`
	RefreshIntervalSeconds     int                       `json:"refreshIntervalSeconds"`
	BackgroundSyncSeconds      int                       `json:"backgroundSyncSeconds"`
	BackgroundSyncActive       bool                      `json:"backgroundSyncActive"`
	LastRefreshMode            officeindex.RefreshMode   `json:"lastRefreshMode"`
	LastRefreshSummary         officeindex.RefreshSummary `json:"lastRefreshSummary"`
	LastRefreshError           *string                   `json:"lastRefreshError"`
	ExternalExtractorReachable *bool                     `json:"externalExtractorReachable,omitempty"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	snap := a.index.Snapshot()

	resp := healthResponse{
		Status:                 "ok",
		Service:                "officeindex-adapter",
		IndexedFiles:           snap.IndexedFiles,
		RefreshIntervalSeconds: a.refreshIntervalSeconds,
		BackgroundSyncSeconds:  a.backgroundSyncSeconds,
		BackgroundSyncActive:   a.backgroundActive.Load(),
		LastRefreshMode:        snap.LastRefreshMode,
		LastRefreshSummary:     snap.LastRefreshSummary,
	}

	if !snap.LastIndexedAt.IsZero() {
		ms := snap.LastIndexedAt.UnixMilli()
		resp.LastIndexedAt = &ms
	}
	if snap.LastRefreshError != "" {
		resp.LastRefreshError = &snap.LastRefreshError
	}
	if a.probe != nil {
		reachable := a.probe.Reachable(r.Context())
		resp.ExternalExtractorReachable = &reachable
	}

	httpx.WriteJSON(r.Context(), w, http.StatusOK, resp)
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req searchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	query, err := searchutil.ParseQuery(req.Query)
	if err != nil {
		httpx.WriteError(r.Context(), w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	limit := searchutil.ParseLimit(req.Limit)

	degraded := false
	var diagnostics []string

	summary, err := a.index.Refresh(r.Context(), officeindex.RefreshIncremental, false)
	switch {
	case errors.Is(err, officeindex.ErrWorkspaceRootNotFound):
		degraded = true
		diagnostics = append(diagnostics, "refresh-failed:"+err.Error())
	case err != nil:
		degraded = true
		diagnostics = append(diagnostics, "refresh-failed:unexpected-error")
	case summary.FailedFiles > 0:
		degraded = true
		diagnostics = append(diagnostics, summary.Diagnostics...)
	}

	results := a.index.Search(query, limit)

	resp := searchResponse{
		Query:       query,
		Total:       len(results),
		TookMs:      time.Since(started).Milliseconds(),
		Results:     results,
		Degraded:    degraded,
		Diagnostics: diagnostics,
	}
	httpx.WriteJSON(r.Context(), w, http.StatusOK, resp)
}

func (a *API) reindex(w http.ResponseWriter, r *http.Request) {
	var req reindexRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(r.Context(), w, http.StatusBadRequest, "INVALID_MODE", err.Error())
		return
	}

	mode, err := parseReindexMode(req.Mode)
	if err != nil {
		httpx.WriteError(r.Context(), w, http.StatusBadRequest, "INVALID_MODE", err.Error())
		return
	}

	summary, err := a.index.Refresh(r.Context(), mode, true)
	switch {
	case errors.Is(err, officeindex.ErrWorkspaceRootNotFound):
		httpx.WriteError(r.Context(), w, http.StatusServiceUnavailable, "WORKSPACE_ROOT_NOT_FOUND", err.Error())
		return
	case err != nil:
		httpx.WriteError(r.Context(), w, http.StatusInternalServerError, "REINDEX_FAILED", "reindex failed due to an unexpected error")
		return
	}

	status := "ok"
	if summary.FailedFiles > 0 {
		status = "degraded"
	}

	httpx.WriteJSON(r.Context(), w, http.StatusOK, reindexResponse{
		Status:       status,
		Mode:         summary.Mode,
		IndexedFiles: summary.IndexedFiles,
		ScannedFiles: summary.ScannedFiles,
		ReusedFiles:  summary.ReusedFiles,
		UpdatedFiles: summary.UpdatedFiles,
		RemovedFiles: summary.RemovedFiles,
		FailedFiles:  summary.FailedFiles,
		Diagnostics:  summary.Diagnostics,
		TookMs:       summary.TookMs,
	})
}

func parseReindexMode(raw *string) (officeindex.RefreshMode, error) {
	if raw == nil {
		return officeindex.RefreshFull, nil
	}

	value := strings.ToLower(strings.TrimSpace(*raw))
	if value == "" {
		return officeindex.RefreshFull, nil
	}

	switch officeindex.RefreshMode(value) {
	case officeindex.RefreshFull, officeindex.RefreshIncremental:
		return officeindex.RefreshMode(value), nil
	default:
		return "", errors.New("mode must be one of: full, incremental")
	}
}
