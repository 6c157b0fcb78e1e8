package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/notify"
)

// TriggerNotificationTool handles the trigger_notification MCP tool.
type TriggerNotificationTool struct {
	dispatcher *notify.Dispatcher
}

// NewTriggerNotificationTool creates a TriggerNotificationTool.
func NewTriggerNotificationTool(d *notify.Dispatcher) *TriggerNotificationTool {
	return &TriggerNotificationTool{dispatcher: d}
}

// Definition returns the MCP tool definition for trigger_notification.
func (t *TriggerNotificationTool) Definition() mcp.Tool {
	return mcp.NewTool("trigger_notification",
		mcp.WithDescription(
			"Send a desktop notification through the bridge immediately. Reports whether it was "+
				"delivered and how many attempts were made.",
		),
		mcp.WithString("title", mcp.Required(), mcp.Description("Notification title")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Notification body")),
		mcp.WithString("sound", mcp.Description("Sound name (default: your configured default)")),
		mcp.WithObject("metadata", mcp.Description("Arbitrary key-value payload forwarded to the bridge")),
	)
}

type triggerNotificationArgs struct {
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Sound    string         `json:"sound"`
	Metadata map[string]any `json:"metadata"`
}

// Handle processes the trigger_notification tool call. Retry exhaustion
// surfaces as a delivery_failed tool error carrying the attempt count.
func (t *TriggerNotificationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args triggerNotificationArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	res, err := t.dispatcher.Send(ctx, notify.Notification{
		Title:    args.Title,
		Message:  args.Message,
		Sound:    args.Sound,
		Metadata: args.Metadata,
	})
	if err != nil {
		return errResult(fmt.Errorf("%w (%d attempts)", err, res.Attempts)), nil
	}
	return jsonResult(res)
}
