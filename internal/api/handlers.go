// Package api implements the HTTP surface of the WellTegra API: route
// handlers, the response envelope, and the server itself.
//
// Every handler follows the same shape: parse and default query
// parameters, validate against an allow-list (invalid values fall back to
// the documented default, never error), build a SQL statement, execute it
// through the warehouse executor, reshape the rows, respond.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
	"github.com/kenmck3772/welltegra-ml-api/internal/warehouse"
)

// Version is the API version reported by the service descriptor.
const Version = "1.0.0"

// Handlers provides the HTTP handlers for all endpoints. The executor is a
// shared long-lived handle; handlers keep no per-request state.
type Handlers struct {
	cfg      *config.Config
	executor warehouse.Executor
	logger   *slog.Logger
}

// NewHandlers creates a Handlers instance with its dependencies injected.
func NewHandlers(cfg *config.Config, executor warehouse.Executor, logger *slog.Logger) *Handlers {
	return &Handlers{cfg: cfg, executor: executor, logger: logger}
}

// queryContext derives a per-query context bounded by the configured
// warehouse timeout.
func (h *Handlers) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.cfg.QueryTimeoutSeconds) * time.Second
	return context.WithTimeout(r.Context(), timeout)
}

// intQuery parses an integer query parameter, falling back to def when the
// parameter is absent or unparsable.
func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// clampLimit normalizes a caller-supplied limit against the configured
// defaults: non-positive values fall back to the default, values above
// max_results are capped.
func (h *Handlers) clampLimit(limit int) int {
	if limit <= 0 {
		return h.cfg.DefaultLimit
	}
	if limit > h.cfg.MaxResults {
		return h.cfg.MaxResults
	}
	return limit
}

// Index serves the static service descriptor. It never fails.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "WellTegra ML API",
		"version":     Version,
		"description": "Cloud-native API for physics-informed industrial ML",
		"endpoints": map[string]string{
			"GET /api/v1/runs":          "Get all historical toolstring runs",
			"GET /api/v1/runs/<run_id>": "Get specific run details",
			"GET /api/v1/tools":         "Get tool usage statistics",
			"GET /api/v1/analytics":     "Get aggregated analytics across all runs",
			"GET /api/v1/health":        "Health check endpoint",
		},
		"documentation": "https://github.com/kenmck3772/welltegra-ml-api",
		"author":        "Ken McKenzie",
	})
}

// Health verifies warehouse connectivity with a count over the runs table.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	rows, err := h.executor.Query(ctx, h.healthQuery(), nil)
	if err != nil {
		h.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	var runsCount any = 0
	if len(rows) > 0 {
		runsCount = rows[0]["count"]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"bigquery":   "connected",
		"runs_count": runsCount,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRuns lists run summaries ordered by an allow-listed sort field.
//
// Query parameters:
//
//	limit   maximum number of runs (default 50, capped at max_results)
//	sort_by total_length | max_od | tool_count | run_name
//	order   asc | desc (case-insensitive, default desc)
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := h.clampLimit(intQuery(r, "limit", h.cfg.DefaultLimit))
	sortBy, order := normalizeSort(r.URL.Query().Get("sort_by"), r.URL.Query().Get("order"))

	ctx, cancel := h.queryContext(r)
	defer cancel()

	rows, err := h.executor.Query(ctx, h.runsQuery(sortBy, order, limit), nil)
	if err != nil {
		h.logger.Error("error fetching runs", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []warehouse.Row{}
	}
	respondList(w, rows, len(rows))
}

// GetRun returns a single run, including lessons, merged with its tool
// list ordered by position.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	params := []warehouse.Parameter{warehouse.StringParam("run_id", runID)}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	runRows, err := h.executor.Query(ctx, h.runDetailQuery(), params)
	if err != nil {
		h.logger.Error("error fetching run", "run_id", runID, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(runRows) == 0 {
		respondError(w, http.StatusNotFound, "Run not found: "+runID)
		return
	}

	toolRows, err := h.executor.Query(ctx, h.runToolsQuery(), params)
	if err != nil {
		h.logger.Error("error fetching run tools", "run_id", runID, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if toolRows == nil {
		toolRows = []warehouse.Row{}
	}

	run := runRows[0]
	run["tools"] = toolRows
	respondData(w, run)
}

// ListTools returns grouped usage statistics per (tool_name, tool_category).
//
// Query parameters:
//
//	category  exact-match filter, bound as a query parameter
//	limit     maximum number of groups (default 50)
//	min_usage minimum usage count per group (default 1)
func (h *Handlers) ListTools(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	limit := h.clampLimit(intQuery(r, "limit", h.cfg.DefaultLimit))
	minUsage := intQuery(r, "min_usage", 1)

	var params []warehouse.Parameter
	if category != "" {
		params = append(params, warehouse.StringParam("category", category))
	}

	ctx, cancel := h.queryContext(r)
	defer cancel()

	rows, err := h.executor.Query(ctx, h.toolStatsQuery(category != "", minUsage, limit), params)
	if err != nil {
		h.logger.Error("error fetching tools", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []warehouse.Row{}
	}
	respondList(w, rows, len(rows))
}

// Analytics returns dataset-wide summary statistics plus a per-category
// breakdown. Both are recomputed by the warehouse on every request.
func (h *Handlers) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.queryContext(r)
	defer cancel()

	summaryRows, err := h.executor.Query(ctx, h.analyticsSummaryQuery(), nil)
	if err != nil {
		h.logger.Error("error fetching analytics", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	categoryRows, err := h.executor.Query(ctx, h.analyticsCategoryQuery(), nil)
	if err != nil {
		h.logger.Error("error fetching analytics categories", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if categoryRows == nil {
		categoryRows = []warehouse.Row{}
	}

	summary := warehouse.Row{}
	if len(summaryRows) > 0 {
		summary = summaryRows[0]
	}
	respondData(w, map[string]any{
		"summary":     summary,
		"by_category": categoryRows,
	})
}
