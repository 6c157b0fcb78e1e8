package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/query"
	"github.com/jarosser06/mosaic/internal/store"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// QueryTool handles the query MCP tool: the structured DSL entrypoint.
type QueryTool struct {
	engine *query.Engine
}

// NewQueryTool creates a QueryTool.
func NewQueryTool(e *query.Engine) *QueryTool {
	return &QueryTool{engine: e}
}

// Definition returns the MCP tool definition for query.
func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool("query",
		mcp.WithDescription(
			"Query entities with structured filters. Filters AND-join over dotted relationship "+
				"paths (project.client.name, attendees.person.email). Operators: eq, ne, gt, gte, "+
				"lt, lte, in, not_in, contains, starts_with, ends_with, is_null, is_not_null, "+
				"has_tag, has_any_tag. Date values accept shortcuts: today, this_week, this_month, "+
				"this_year, now. Aggregations: count, sum, avg, min, max, count_distinct, with "+
				"optional group_by.",
		),
		mcp.WithString("entity_type", mcp.Required(), mcp.Description(
			"work_session, meeting, person, client, project, employer, note, or reminder")),
		mcp.WithArray("filters", mcp.Description("Filter clauses: {field, operator, value}")),
		mcp.WithObject("aggregation", mcp.Description("Optional: {function, field, group_by}")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 100, max 1000)")),
		mcp.WithNumber("offset", mcp.Description("Results to skip")),
		mcp.WithArray("order_by", mcp.Description("Sort keys: {field, direction}")),
		mcp.WithString("access_mode", mcp.Description(
			"all, internal_and_public, or public_only (default: all)")),
	)
}

type queryArgs struct {
	EntityType  string               `json:"entity_type"`
	Filters     []query.FilterClause `json:"filters"`
	Aggregation *query.Aggregation   `json:"aggregation"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
	OrderBy     []query.OrderBy      `json:"order_by"`
	AccessMode  string               `json:"access_mode"`
}

// Handle processes the query tool call.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args queryArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	res, err := t.engine.Execute(ctx, query.Query{
		EntityType:  store.EntityType(args.EntityType),
		Filters:     args.Filters,
		Aggregation: args.Aggregation,
		Limit:       args.Limit,
		Offset:      args.Offset,
		OrderBy:     args.OrderBy,
	}, query.AccessMode(args.AccessMode))
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res)
}

// ─── SearchTool ─────────────────────────────────────────────────────────────

// SearchTool handles the search MCP tool: a loose phrase adapter over
// the structured engine. It recognizes entity keywords and coarse time
// ranges; anything beyond that belongs in the query tool. Output shape
// matches the structured tool but the phrase grammar is best-effort,
// not a contract.
type SearchTool struct {
	engine *query.Engine
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(e *query.Engine) *SearchTool {
	return &SearchTool{engine: e}
}

// Definition returns the MCP tool definition for search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription(
			"Loose phrase search, e.g. 'work sessions this week' or 'meetings today'. Recognizes "+
				"entity keywords and the ranges today / this week / this month. For anything more "+
				"precise, use the query tool.",
		),
		mcp.WithString("text", mcp.Required(), mcp.Description("Search phrase")),
	)
}

type searchArgs struct {
	Text string `json:"text"`
}

// phraseEntities maps phrase keywords onto entity types, checked in
// declaration order so "work session" wins over "session".
var phraseEntities = []struct {
	keyword string
	entity  store.EntityType
}{
	{"work session", store.EntityWorkSession},
	{"session", store.EntityWorkSession},
	{"meeting", store.EntityMeeting},
	{"person", store.EntityPerson},
	{"people", store.EntityPerson},
	{"contact", store.EntityPerson},
	{"client", store.EntityClient},
	{"project", store.EntityProject},
	{"employer", store.EntityEmployer},
	{"note", store.EntityNote},
	{"reminder", store.EntityReminder},
}

// timeFields names the datetime column the range filter applies to per
// entity.
var timeFields = map[store.EntityType]string{
	store.EntityWorkSession: "start_time",
	store.EntityMeeting:     "start_time",
	store.EntityReminder:    "reminder_time",
}

// Handle processes the search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args searchArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	phrase := strings.ToLower(strings.TrimSpace(args.Text))
	if phrase == "" {
		return errResult(apperr.New(apperr.InvalidArgument, "search text is required")), nil
	}

	q, err := t.parsePhrase(phrase)
	if err != nil {
		return errResult(err), nil
	}
	res, err := t.engine.Execute(ctx, q, query.AccessAll)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(res)
}

// parsePhrase extracts the entity and an optional time range.
func (t *SearchTool) parsePhrase(phrase string) (query.Query, error) {
	var entity store.EntityType
	for _, pe := range phraseEntities {
		if strings.Contains(phrase, pe.keyword) {
			entity = pe.entity
			break
		}
	}
	if entity == "" {
		return query.Query{}, apperr.Newf(apperr.InvalidArgument,
			"could not recognize an entity in %q; name one of: work sessions, meetings, people, clients, projects, employers, notes, reminders", phrase)
	}

	q := query.Query{EntityType: entity}

	var shortcut string
	switch {
	case strings.Contains(phrase, "today"):
		shortcut = timeutil.ShortcutToday
	case strings.Contains(phrase, "this week"):
		shortcut = timeutil.ShortcutThisWeek
	case strings.Contains(phrase, "this month"):
		shortcut = timeutil.ShortcutThisMonth
	}
	if shortcut == "" {
		return q, nil
	}

	field, ok := timeFields[entity]
	if !ok {
		field = "created_at"
	}
	q.Filters = append(q.Filters, query.FilterClause{
		Field: field, Operator: query.OpGte, Value: shortcut,
	})
	return q, nil
}
