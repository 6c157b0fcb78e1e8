package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// GenerateTimecardTool handles the generate_timecard MCP tool.
type GenerateTimecardTool struct {
	store *store.Store
}

// NewGenerateTimecardTool creates a GenerateTimecardTool.
func NewGenerateTimecardTool(s *store.Store) *GenerateTimecardTool {
	return &GenerateTimecardTool{store: s}
}

// Definition returns the MCP tool definition for generate_timecard.
func (t *GenerateTimecardTool) Definition() mcp.Tool {
	return mcp.NewTool("generate_timecard",
		mcp.WithDescription(
			"Generate a per-day timecard for a project over a date range. Without include_private, "+
				"private sessions are omitted and internal session summaries are genericized while "+
				"their hours still count.",
		),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project id")),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("YYYY-MM-DD, inclusive")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("YYYY-MM-DD, inclusive")),
		mcp.WithBoolean("include_private", mcp.Description("Include private sessions and real internal summaries")),
	)
}

type timecardArgs struct {
	ProjectID      int64  `json:"project_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IncludePrivate bool   `json:"include_private"`
}

// timecardResult is the tool output envelope.
type timecardResult struct {
	ProjectID int64               `json:"project_id"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Rows      []store.TimecardRow `json:"rows"`
	Total     store.Hours         `json:"total_hours"`
}

// Handle processes the generate_timecard tool call.
func (t *GenerateTimecardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args timecardArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	rows, err := t.store.Timecard(ctx, args.ProjectID, args.StartDate, args.EndDate, args.IncludePrivate)
	if err != nil {
		return errResult(err), nil
	}

	var total store.Hours
	for _, r := range rows {
		total = store.HoursOf(total.Add(r.Hours.Decimal))
	}
	return jsonResult(timecardResult{
		ProjectID: args.ProjectID,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
		Rows:      rows,
		Total:     total,
	})
}
