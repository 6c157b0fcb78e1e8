package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// AddEmployerTool handles the add_employer MCP tool.
type AddEmployerTool struct {
	store *store.Store
}

// NewAddEmployerTool creates an AddEmployerTool.
func NewAddEmployerTool(s *store.Store) *AddEmployerTool {
	return &AddEmployerTool{store: s}
}

// Definition returns the MCP tool definition for add_employer.
func (t *AddEmployerTool) Definition() mcp.Tool {
	return mcp.NewTool("add_employer",
		mcp.WithDescription("Add an employer: a party projects can be performed on behalf of."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Employer name")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type addEmployerArgs struct {
	Name  string   `json:"name"`
	Notes *string  `json:"notes"`
	Tags  []string `json:"tags"`
}

// Handle processes the add_employer tool call.
func (t *AddEmployerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addEmployerArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	e, err := t.store.CreateEmployer(ctx, store.CreateEmployerParams{
		Name:  args.Name,
		Notes: args.Notes,
		Tags:  tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(e)
}

// ─── UpdateEmployerTool ─────────────────────────────────────────────────────

// UpdateEmployerTool handles the update_employer MCP tool.
type UpdateEmployerTool struct {
	store *store.Store
}

// NewUpdateEmployerTool creates an UpdateEmployerTool.
func NewUpdateEmployerTool(s *store.Store) *UpdateEmployerTool {
	return &UpdateEmployerTool{store: s}
}

// Definition returns the MCP tool definition for update_employer.
func (t *UpdateEmployerTool) Definition() mcp.Tool {
	return mcp.NewTool("update_employer",
		mcp.WithDescription("Update an employer. Only the supplied fields change."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Employer id")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("notes", mcp.Description("New notes")),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updateEmployerArgs struct {
	ID    int64     `json:"id"`
	Name  *string   `json:"name"`
	Notes *string   `json:"notes"`
	Tags  *[]string `json:"tags"`
}

// Handle processes the update_employer tool call.
func (t *UpdateEmployerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateEmployerArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	params := store.UpdateEmployerParams{Name: args.Name, Notes: args.Notes}
	if args.Tags != nil {
		tags := tagsOf(*args.Tags)
		params.Tags = &tags
	}
	e, err := t.store.UpdateEmployer(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(e)
}
