package api

import (
	"fmt"
	"strings"
)

// Sort allow-list for the runs listing. Values outside the list fall back
// to the default rather than erroring. Only tokens from this closed set are
// ever interpolated into statement text; all caller-supplied values go
// through bound parameters.
var runSortFields = map[string]struct{}{
	"total_length": {},
	"max_od":       {},
	"tool_count":   {},
	"run_name":     {},
}

const (
	defaultSortField = "total_length"
	defaultSortOrder = "DESC"
)

// normalizeSort validates sort_by/order against the allow-list, replacing
// invalid values with the defaults.
func normalizeSort(sortBy, order string) (string, string) {
	if _, ok := runSortFields[sortBy]; !ok {
		sortBy = defaultSortField
	}
	switch strings.ToUpper(order) {
	case "ASC":
		order = "ASC"
	case "DESC":
		order = "DESC"
	default:
		order = defaultSortOrder
	}
	return sortBy, order
}

// runsTable returns the fully qualified toolstring_runs table reference.
func (h *Handlers) runsTable() string {
	return fmt.Sprintf("`%s.%s.toolstring_runs`", h.cfg.ProjectID, h.cfg.Dataset)
}

// toolsTable returns the fully qualified toolstring_tools table reference.
func (h *Handlers) toolsTable() string {
	return fmt.Sprintf("`%s.%s.toolstring_tools`", h.cfg.ProjectID, h.cfg.Dataset)
}

func (h *Handlers) healthQuery() string {
	return fmt.Sprintf("SELECT COUNT(*) as count FROM %s", h.runsTable())
}

// runsQuery lists run summaries. lessons is deliberately omitted from the
// listing; it is detail-only. sortBy and order must already be normalized.
func (h *Handlers) runsQuery(sortBy, order string, limit int) string {
	return fmt.Sprintf(`
		SELECT
			run_id,
			run_name,
			well_name,
			run_date,
			tool_count,
			total_length,
			max_od,
			outcome
		FROM %s
		ORDER BY %s %s
		LIMIT %d`, h.runsTable(), sortBy, order, limit)
}

// runDetailQuery fetches a single run including lessons. run_id is bound
// as @run_id, never interpolated.
func (h *Handlers) runDetailQuery() string {
	return fmt.Sprintf(`
		SELECT
			run_id,
			run_name,
			well_name,
			run_date,
			tool_count,
			total_length,
			max_od,
			outcome,
			lessons
		FROM %s
		WHERE run_id = @run_id`, h.runsTable())
}

// runToolsQuery fetches the tools of a run in presentation order.
func (h *Handlers) runToolsQuery() string {
	return fmt.Sprintf(`
		SELECT
			tool_id,
			position,
			tool_name,
			od,
			neck_diameter,
			length,
			tool_category
		FROM %s
		WHERE run_id = @run_id
		ORDER BY position ASC`, h.toolsTable())
}

// toolStatsQuery aggregates usage statistics per (tool_name, tool_category).
// The category filter, when present, is bound as @category. minUsage and
// limit are validated integers.
func (h *Handlers) toolStatsQuery(withCategory bool, minUsage, limit int) string {
	whereClause := ""
	if withCategory {
		whereClause = "WHERE tool_category = @category"
	}
	return fmt.Sprintf(`
		SELECT
			tool_name,
			tool_category,
			COUNT(*) as usage_count,
			ROUND(AVG(od), 2) as avg_od,
			ROUND(AVG(length), 2) as avg_length,
			ROUND(MIN(od), 2) as min_od,
			ROUND(MAX(od), 2) as max_od
		FROM %s
		%s
		GROUP BY tool_name, tool_category
		HAVING COUNT(*) >= %d
		ORDER BY usage_count DESC, tool_name ASC
		LIMIT %d`, h.toolsTable(), whereClause, minUsage, limit)
}

// analyticsSummaryQuery computes dataset-wide summary statistics.
func (h *Handlers) analyticsSummaryQuery() string {
	return fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT run_id) as total_runs,
			COUNT(*) as total_tools,
			ROUND(AVG(total_length), 2) as avg_toolstring_length,
			ROUND(MAX(total_length), 2) as max_toolstring_length,
			ROUND(AVG(max_od), 2) as avg_max_od,
			ROUND(AVG(tool_count), 1) as avg_tools_per_run
		FROM %s`, h.runsTable())
}

// analyticsCategoryQuery breaks tool usage down by category.
func (h *Handlers) analyticsCategoryQuery() string {
	return fmt.Sprintf(`
		SELECT
			tool_category,
			COUNT(*) as count,
			ROUND(AVG(length), 2) as avg_length
		FROM %s
		WHERE tool_category IS NOT NULL
		GROUP BY tool_category
		ORDER BY count DESC`, h.toolsTable())
}
