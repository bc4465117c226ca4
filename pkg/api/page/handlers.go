package page

import (
	"errors"
	"net/http"
	"time"

	"github.com/openwork/search-adapters/pkg/api/httpx"
	"github.com/openwork/search-adapters/pkg/pageindex"
	"github.com/openwork/search-adapters/pkg/searchutil"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

type searchResponse struct {
	Query         string            `json:"query"`
	Total         int               `json:"total"`
	TookMs        int64             `json:"tookMs"`
	WorkspaceRoot string            `json:"workspaceRoot"`
	Results       []pageindex.Result `json:"results"`
}

type reindexResponse struct {
	Status       string   `json:"status"`
	IndexedFiles int      `json:"indexedFiles"`
	RemovedFiles int      `json:"removedFiles"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
	TookMs       int64    `json:"tookMs"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	IndexedFiles  int    `json:"indexedFiles"`
	LastIndexedAt *int64 `json:"lastIndexedAt"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	snap := a.index.Snapshot()

	resp := healthResponse{
		Status:       "ok",
		Service:      "pageindex-adapter",
		IndexedFiles: snap.IndexedFiles,
	}
	if !snap.LastIndexedAt.IsZero() {
		ms := snap.LastIndexedAt.UnixMilli()
		resp.LastIndexedAt = &ms
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

	results, err := a.index.Search(r.Context(), query, limit)
	if err != nil {
		results = nil
	}

	httpx.WriteJSON(r.Context(), w, http.StatusOK, searchResponse{
		Query:         query,
		Total:         len(results),
		TookMs:        time.Since(started).Milliseconds(),
		WorkspaceRoot: a.index.Snapshot().WorkspaceRoot,
		Results:       results,
	})
}

func (a *API) reindex(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	summary, err := a.index.Refresh(r.Context())
	switch {
	case errors.Is(err, pageindex.ErrWorkspaceRootNotFound):
		httpx.WriteError(r.Context(), w, http.StatusServiceUnavailable, "WORKSPACE_ROOT_NOT_FOUND", err.Error())
		return
	case err != nil:
		httpx.WriteError(r.Context(), w, http.StatusInternalServerError, "REINDEX_FAILED", "reindex failed due to an unexpected error")
		return
	}

	httpx.WriteJSON(r.Context(), w, http.StatusOK, reindexResponse{
		Status:       "ok",
		IndexedFiles: summary.IndexedFiles,
		RemovedFiles: summary.RemovedFiles,
		Diagnostics:  summary.Diagnostics,
		TookMs:       time.Since(started).Milliseconds(),
	})
}
