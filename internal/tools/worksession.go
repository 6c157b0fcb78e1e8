package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// LogWorkSessionTool handles the log_work_session MCP tool.
type LogWorkSessionTool struct {
	store *store.Store
}

// NewLogWorkSessionTool creates a LogWorkSessionTool.
func NewLogWorkSessionTool(s *store.Store) *LogWorkSessionTool {
	return &LogWorkSessionTool{store: s}
}

// Definition returns the MCP tool definition for log_work_session.
func (t *LogWorkSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("log_work_session",
		mcp.WithDescription(
			"Log a block of work on a project. The billable duration is derived from start and end "+
				"times using half-hour rounding; the session date follows the start time in your timezone.",
		),
		mcp.WithNumber("project_id", mcp.Required(), mcp.Description("Project the work belongs to")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start instant, ISO-8601 with offset")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End instant, ISO-8601 with offset")),
		mcp.WithString("summary", mcp.Description("What was done")),
		mcp.WithString("privacy_level", mcp.Description("public, internal, or private (default: your configured default)")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type logWorkSessionArgs struct {
	ProjectID    int64    `json:"project_id"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Summary      *string  `json:"summary"`
	PrivacyLevel string   `json:"privacy_level"`
	Tags         []string `json:"tags"`
}

// Handle processes the log_work_session tool call.
func (t *LogWorkSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args logWorkSessionArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	start, err := parseInstant("start_time", args.StartTime)
	if err != nil {
		return errResult(err), nil
	}
	end, err := parseInstant("end_time", args.EndTime)
	if err != nil {
		return errResult(err), nil
	}
	privacy, err := privacyOf(args.PrivacyLevel)
	if err != nil {
		return errResult(err), nil
	}

	ws, err := t.store.CreateWorkSession(ctx, store.CreateWorkSessionParams{
		ProjectID:    args.ProjectID,
		StartTime:    start,
		EndTime:      end,
		Summary:      args.Summary,
		PrivacyLevel: privacy,
		Tags:         tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(ws)
}

// ─── UpdateWorkSessionTool ──────────────────────────────────────────────────

// UpdateWorkSessionTool handles the update_work_session MCP tool.
type UpdateWorkSessionTool struct {
	store *store.Store
}

// NewUpdateWorkSessionTool creates an UpdateWorkSessionTool.
func NewUpdateWorkSessionTool(s *store.Store) *UpdateWorkSessionTool {
	return &UpdateWorkSessionTool{store: s}
}

// Definition returns the MCP tool definition for update_work_session.
func (t *UpdateWorkSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("update_work_session",
		mcp.WithDescription(
			"Update a work session. Changing start or end recomputes the rounded duration and the "+
				"session date in the same commit; duration and date cannot be set directly.",
		),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Work session id")),
		mcp.WithNumber("project_id", mcp.Description("Move the session to another project")),
		mcp.WithString("start_time", mcp.Description("New start instant, ISO-8601 with offset")),
		mcp.WithString("end_time", mcp.Description("New end instant, ISO-8601 with offset")),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("privacy_level", mcp.Description("public, internal, or private")),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updateWorkSessionArgs struct {
	ID           int64     `json:"id"`
	ProjectID    *int64    `json:"project_id"`
	StartTime    *string   `json:"start_time"`
	EndTime      *string   `json:"end_time"`
	Summary      *string   `json:"summary"`
	PrivacyLevel *string   `json:"privacy_level"`
	Tags         *[]string `json:"tags"`
}

// Handle processes the update_work_session tool call.
func (t *UpdateWorkSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateWorkSessionArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	start, err := parseOptionalInstant("start_time", args.StartTime)
	if err != nil {
		return errResult(err), nil
	}
	end, err := parseOptionalInstant("end_time", args.EndTime)
	if err != nil {
		return errResult(err), nil
	}

	params := store.UpdateWorkSessionParams{
		ProjectID: args.ProjectID,
		StartTime: start,
		EndTime:   end,
		Summary:   args.Summary,
	}
	if args.PrivacyLevel != nil {
		p, err := privacyOf(*args.PrivacyLevel)
		if err != nil {
			return errResult(err), nil
		}
		params.PrivacyLevel = &p
	}
	if args.Tags != nil {
		tags := tagsOf(*args.Tags)
		params.Tags = &tags
	}

	ws, err := t.store.UpdateWorkSession(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(ws)
}
