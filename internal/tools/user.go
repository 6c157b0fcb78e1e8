package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// GetUserTool handles the get_user MCP tool.
type GetUserTool struct {
	store *store.Store
}

// NewGetUserTool creates a GetUserTool.
func NewGetUserTool(s *store.Store) *GetUserTool {
	return &GetUserTool{store: s}
}

// Definition returns the MCP tool definition for get_user.
func (t *GetUserTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user",
		mcp.WithDescription("Get the user profile: name, email, timezone, week boundary, and default privacy."),
	)
}

// Handle processes the get_user tool call.
func (t *GetUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := t.store.GetUser(ctx)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(u)
}

// ─── UpdateUserTool ─────────────────────────────────────────────────────────

// UpdateUserTool handles the update_user MCP tool.
type UpdateUserTool struct {
	store *store.Store
}

// NewUpdateUserTool creates an UpdateUserTool.
func NewUpdateUserTool(s *store.Store) *UpdateUserTool {
	return &UpdateUserTool{store: s}
}

// Definition returns the MCP tool definition for update_user.
func (t *UpdateUserTool) Definition() mcp.Tool {
	return mcp.NewTool("update_user",
		mcp.WithDescription(
			"Update the user profile. Timezone and week boundary stored here describe the profile; "+
				"the running server keeps its configured conventions until restart.",
		),
		mcp.WithString("name", mcp.Description("Display name")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("timezone", mcp.Description("IANA timezone name")),
		mcp.WithString("default_week_boundary", mcp.Description("mon-fri, sun-sat, or mon-sun")),
		mcp.WithString("default_privacy_level", mcp.Description("public, internal, or private")),
	)
}

type updateUserArgs struct {
	Name                *string `json:"name"`
	Email               *string `json:"email"`
	Timezone            *string `json:"timezone"`
	DefaultWeekBoundary *string `json:"default_week_boundary"`
	DefaultPrivacyLevel *string `json:"default_privacy_level"`
}

// Handle processes the update_user tool call.
func (t *UpdateUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateUserArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	params := store.UpdateUserParams{
		Name:                args.Name,
		Email:               args.Email,
		Timezone:            args.Timezone,
		DefaultWeekBoundary: args.DefaultWeekBoundary,
	}
	if args.DefaultPrivacyLevel != nil {
		p, err := privacyOf(*args.DefaultPrivacyLevel)
		if err != nil {
			return errResult(err), nil
		}
		params.DefaultPrivacyLevel = &p
	}
	u, err := t.store.UpdateUser(ctx, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(u)
}
