package chat

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openwork/search-adapters/pkg/api/httpx"
	"github.com/openwork/search-adapters/pkg/chatindex"
	"github.com/openwork/search-adapters/pkg/searchutil"
)

type searchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
	Limit  *int   `json:"limit"`
}

type searchResponse struct {
	Query   string             `json:"query"`
	Total   int                `json:"total"`
	TookMs  int64              `json:"tookMs"`
	Results []chatindex.Result `json:"results"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	DBReachable bool   `json:"dbReachable"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(r.Context(), w, http.StatusOK, healthResponse{
		Status:      "ok",
		Service:     "chatindex-adapter",
		DBReachable: a.store.Reachable(r.Context()),
	})
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

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = strings.TrimSpace(r.Header.Get("x-user-id"))
	}
	if userID == "" {
		httpx.WriteError(r.Context(), w, http.StatusBadRequest, "INVALID_USER", "userId is required")
		return
	}

	limit := searchutil.ParseLimit(req.Limit)

	results, err := a.store.Search(r.Context(), userID, query, limit)
	switch {
	case errors.Is(err, chatindex.ErrDatabaseNotFound):
		httpx.WriteError(r.Context(), w, http.StatusServiceUnavailable, "DB_NOT_FOUND", err.Error())
		return
	case errors.Is(err, chatindex.ErrUserNotFound):
		httpx.WriteError(r.Context(), w, http.StatusNotFound, "USER_NOT_FOUND", "user does not exist")
		return
	case err != nil:
		httpx.WriteError(r.Context(), w, http.StatusInternalServerError, "SEARCH_FAILED", "search failed due to an unexpected error")
		return
	}

	httpx.WriteJSON(r.Context(), w, http.StatusOK, searchResponse{
		Query:   query,
		Total:   len(results),
		TookMs:  time.Since(started).Milliseconds(),
		Results: results,
	})
}
