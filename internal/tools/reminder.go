package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// AddReminderTool handles the add_reminder MCP tool.
type AddReminderTool struct {
	store *store.Store
}

// NewAddReminderTool creates an AddReminderTool.
func NewAddReminderTool(s *store.Store) *AddReminderTool {
	return &AddReminderTool{store: s}
}

// Definition returns the MCP tool definition for add_reminder.
func (t *AddReminderTool) Definition() mcp.Tool {
	return mcp.NewTool("add_reminder",
		mcp.WithDescription(
			"Add a reminder. A recurrence_config of {frequency: daily|weekly|monthly} makes it "+
				"recurring: completing it schedules the next occurrence automatically.",
		),
		mcp.WithString("reminder_time", mcp.Required(), mcp.Description("Due instant, ISO-8601 with offset")),
		mcp.WithString("message", mcp.Required(), mcp.Description("What to be reminded of")),
		mcp.WithObject("recurrence_config", mcp.Description(
			"Optional recurrence: frequency (daily, weekly, monthly), day_of_week 0-6 for weekly, day_of_month 1-31 for monthly")),
		mcp.WithString("related_entity_type", mcp.Description("Entity type this reminder relates to")),
		mcp.WithNumber("related_entity_id", mcp.Description("Entity id this reminder relates to")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type addReminderArgs struct {
	ReminderTime      string           `json:"reminder_time"`
	Message           string           `json:"message"`
	RecurrenceConfig  store.JSONObject `json:"recurrence_config"`
	RelatedEntityType *string          `json:"related_entity_type"`
	RelatedEntityID   *int64           `json:"related_entity_id"`
	Tags              []string         `json:"tags"`
}

// Handle processes the add_reminder tool call.
func (t *AddReminderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addReminderArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	when, err := parseInstant("reminder_time", args.ReminderTime)
	if err != nil {
		return errResult(err), nil
	}
	et, err := entityTypeOf(args.RelatedEntityType)
	if err != nil {
		return errResult(err), nil
	}
	r, err := t.store.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime:      when,
		Message:           args.Message,
		RecurrenceConfig:  args.RecurrenceConfig,
		RelatedEntityType: et,
		RelatedEntityID:   args.RelatedEntityID,
		Tags:              tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(r)
}

// ─── CompleteReminderTool ───────────────────────────────────────────────────

// CompleteReminderTool handles the complete_reminder MCP tool.
type CompleteReminderTool struct {
	store *store.Store
}

// NewCompleteReminderTool creates a CompleteReminderTool.
func NewCompleteReminderTool(s *store.Store) *CompleteReminderTool {
	return &CompleteReminderTool{store: s}
}

// Definition returns the MCP tool definition for complete_reminder.
func (t *CompleteReminderTool) Definition() mcp.Tool {
	return mcp.NewTool("complete_reminder",
		mcp.WithDescription(
			"Mark a reminder done. A recurring reminder atomically schedules its next occurrence.",
		),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder id")),
	)
}

type reminderIDArgs struct {
	ID int64 `json:"id"`
}

// completeReminderResult pairs the completed row with the successor,
// if any.
type completeReminderResult struct {
	Completed *store.Reminder `json:"completed"`
	Next      *store.Reminder `json:"next,omitempty"`
}

// Handle processes the complete_reminder tool call.
func (t *CompleteReminderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args reminderIDArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	done, next, err := t.store.CompleteReminder(ctx, args.ID)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(completeReminderResult{Completed: done, Next: next})
}

// ─── SnoozeReminderTool ─────────────────────────────────────────────────────

// SnoozeReminderTool handles the snooze_reminder MCP tool.
type SnoozeReminderTool struct {
	store *store.Store
}

// NewSnoozeReminderTool creates a SnoozeReminderTool.
func NewSnoozeReminderTool(s *store.Store) *SnoozeReminderTool {
	return &SnoozeReminderTool{store: s}
}

// Definition returns the MCP tool definition for snooze_reminder.
func (t *SnoozeReminderTool) Definition() mcp.Tool {
	return mcp.NewTool("snooze_reminder",
		mcp.WithDescription(
			"Push a reminder's next notification to a later instant without changing its due time.",
		),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder id")),
		mcp.WithString("until", mcp.Required(), mcp.Description("Snooze until, ISO-8601 with offset")),
	)
}

type snoozeReminderArgs struct {
	ID    int64  `json:"id"`
	Until string `json:"until"`
}

// Handle processes the snooze_reminder tool call.
func (t *SnoozeReminderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args snoozeReminderArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	until, err := parseInstant("until", args.Until)
	if err != nil {
		return errResult(err), nil
	}
	r, err := t.store.SnoozeReminder(ctx, args.ID, until)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(r)
}
