package office

import (
	"net/http"

	"github.com/openwork/search-adapters/pkg/api/middleware"
)

func (a *API) newMux() *http.ServeMux {
	mux := http.NewServeMux()

	withMiddleware := []middleware.Middleware{middleware.NewReqID(), middleware.NewLogging()}

	mux.Handle("GET /health", middleware.Use(a.health, withMiddleware...))
	mux.Handle("POST /search", middleware.Use(a.search, withMiddleware...))
	mux.Handle("POST /reindex", middleware.Use(a.reindex, withMiddleware...))

	return mux
}
