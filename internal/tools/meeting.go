package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// LogMeetingTool handles the log_meeting MCP tool.
type LogMeetingTool struct {
	store *store.Store
}

// NewLogMeetingTool creates a LogMeetingTool.
func NewLogMeetingTool(s *store.Store) *LogMeetingTool {
	return &LogMeetingTool{store: s}
}

// Definition returns the MCP tool definition for log_meeting.
func (t *LogMeetingTool) Definition() mcp.Tool {
	return mcp.NewTool("log_meeting",
		mcp.WithDescription(
			"Log a meeting. When tied to a project, a work session covering the meeting is logged "+
				"atomically alongside it, with the duration rounded to the half hour.",
		),
		mcp.WithString("title", mcp.Required(), mcp.Description("Meeting title")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start instant, ISO-8601 with offset")),
		mcp.WithNumber("duration_minutes", mcp.Required(), mcp.Description("Length in minutes, > 0")),
		mcp.WithString("summary", mcp.Description("What was discussed")),
		mcp.WithString("privacy_level", mcp.Description("public, internal, or private (default: your configured default)")),
		mcp.WithNumber("project_id", mcp.Description("Project to bill the meeting against")),
		mcp.WithString("meeting_type", mcp.Description("Free-form type (standup, review, ...)")),
		mcp.WithString("location", mcp.Description("Where it happened")),
		mcp.WithArray("attendee_ids", mcp.Description("Person ids who attended"), mcp.WithNumberItems()),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type logMeetingArgs struct {
	Title           string   `json:"title"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Summary         *string  `json:"summary"`
	PrivacyLevel    string   `json:"privacy_level"`
	ProjectID       *int64   `json:"project_id"`
	MeetingType     *string  `json:"meeting_type"`
	Location        *string  `json:"location"`
	AttendeeIDs     []int64  `json:"attendee_ids"`
	Tags            []string `json:"tags"`
}

// logMeetingResult pairs the meeting with its optional auto session.
type logMeetingResult struct {
	Meeting     *store.Meeting     `json:"meeting"`
	WorkSession *store.WorkSession `json:"work_session,omitempty"`
}

// Handle processes the log_meeting tool call.
func (t *LogMeetingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args logMeetingArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	start, err := parseInstant("start_time", args.StartTime)
	if err != nil {
		return errResult(err), nil
	}
	privacy, err := privacyOf(args.PrivacyLevel)
	if err != nil {
		return errResult(err), nil
	}

	m, ws, err := t.store.CreateMeeting(ctx, store.CreateMeetingParams{
		Title:           args.Title,
		StartTime:       start,
		DurationMinutes: args.DurationMinutes,
		Summary:         args.Summary,
		PrivacyLevel:    privacy,
		ProjectID:       args.ProjectID,
		MeetingType:     args.MeetingType,
		Location:        args.Location,
		AttendeeIDs:     args.AttendeeIDs,
		Tags:            tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(logMeetingResult{Meeting: m, WorkSession: ws})
}

// ─── UpdateMeetingTool ──────────────────────────────────────────────────────

// UpdateMeetingTool handles the update_meeting MCP tool.
type UpdateMeetingTool struct {
	store *store.Store
}

// NewUpdateMeetingTool creates an UpdateMeetingTool.
func NewUpdateMeetingTool(s *store.Store) *UpdateMeetingTool {
	return &UpdateMeetingTool{store: s}
}

// Definition returns the MCP tool definition for update_meeting.
func (t *UpdateMeetingTool) Definition() mcp.Tool {
	return mcp.NewTool("update_meeting",
		mcp.WithDescription(
			"Update a meeting. Changing the project link does not retroactively add or remove the "+
				"work session logged at creation. Passing attendee_ids replaces the attendee set.",
		),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Meeting id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("start_time", mcp.Description("New start instant, ISO-8601 with offset")),
		mcp.WithNumber("duration_minutes", mcp.Description("New length in minutes, > 0")),
		mcp.WithString("summary", mcp.Description("New summary")),
		mcp.WithString("privacy_level", mcp.Description("public, internal, or private")),
		mcp.WithNumber("project_id", mcp.Description("New project link")),
		mcp.WithBoolean("clear_project", mcp.Description("Detach the meeting from its project")),
		mcp.WithString("meeting_type", mcp.Description("New type")),
		mcp.WithString("location", mcp.Description("New location")),
		mcp.WithArray("attendee_ids", mcp.Description("Replacement attendee set"), mcp.WithNumberItems()),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updateMeetingArgs struct {
	ID              int64     `json:"id"`
	Title           *string   `json:"title"`
	StartTime       *string   `json:"start_time"`
	DurationMinutes *int      `json:"duration_minutes"`
	Summary         *string   `json:"summary"`
	PrivacyLevel    *string   `json:"privacy_level"`
	ProjectID       *int64    `json:"project_id"`
	ClearProject    bool      `json:"clear_project"`
	MeetingType     *string   `json:"meeting_type"`
	Location        *string   `json:"location"`
	AttendeeIDs     *[]int64  `json:"attendee_ids"`
	Tags            *[]string `json:"tags"`
}

// Handle processes the update_meeting tool call.
func (t *UpdateMeetingTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateMeetingArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	start, err := parseOptionalInstant("start_time", args.StartTime)
	if err != nil {
		return errResult(err), nil
	}

	params := store.UpdateMeetingParams{
		Title:           args.Title,
		StartTime:       start,
		DurationMinutes: args.DurationMinutes,
		Summary:         args.Summary,
		ProjectID:       args.ProjectID,
		ClearProject:    args.ClearProject,
		MeetingType:     args.MeetingType,
		Location:        args.Location,
	}
	if args.PrivacyLevel != nil {
		p, err := privacyOf(*args.PrivacyLevel)
		if err != nil {
			return errResult(err), nil
		}
		params.PrivacyLevel = &p
	}
	if args.AttendeeIDs != nil {
		params.AttendeeIDs = *args.AttendeeIDs
	}
	if args.Tags != nil {
		tags := tagsOf(*args.Tags)
		params.Tags = &tags
	}

	m, err := t.store.UpdateMeeting(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(m)
}
