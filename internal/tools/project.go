package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// AddProjectTool handles the add_project MCP tool.
type AddProjectTool struct {
	store *store.Store
}

// NewAddProjectTool creates an AddProjectTool.
func NewAddProjectTool(s *store.Store) *AddProjectTool {
	return &AddProjectTool{store: s}
}

// Definition returns the MCP tool definition for add_project.
func (t *AddProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("add_project",
		mcp.WithDescription(
			"Add a project under a client. Optionally mark it as performed on behalf of an employer.",
		),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithNumber("client_id", mcp.Required(), mcp.Description("Owning client id")),
		mcp.WithNumber("on_behalf_of", mcp.Description("Employer id the work is performed on behalf of")),
		mcp.WithString("description", mcp.Description("What the project is")),
		mcp.WithString("status", mcp.Description("active, paused, or completed (default: active)")),
		mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("YYYY-MM-DD; required when status is completed")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type addProjectArgs struct {
	Name        string   `json:"name"`
	ClientID    int64    `json:"client_id"`
	OnBehalfOf  *int64   `json:"on_behalf_of"`
	Description *string  `json:"description"`
	Status      string   `json:"status"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Tags        []string `json:"tags"`
}

// Handle processes the add_project tool call.
func (t *AddProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addProjectArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	p, err := t.store.CreateProject(ctx, store.CreateProjectParams{
		Name:         args.Name,
		ClientID:     args.ClientID,
		OnBehalfOfID: args.OnBehalfOf,
		Description:  args.Description,
		Status:       store.ProjectStatus(args.Status),
		StartDate:    args.StartDate,
		EndDate:      args.EndDate,
		Tags:         tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(p)
}

// ─── UpdateProjectTool ──────────────────────────────────────────────────────

// UpdateProjectTool handles the update_project MCP tool.
type UpdateProjectTool struct {
	store *store.Store
}

// NewUpdateProjectTool creates an UpdateProjectTool.
func NewUpdateProjectTool(s *store.Store) *UpdateProjectTool {
	return &UpdateProjectTool{store: s}
}

// Definition returns the MCP tool definition for update_project.
func (t *UpdateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("update_project",
		mcp.WithDescription(
			"Update a project. Marking it completed requires an end date. Changing the project of "+
				"past meetings or sessions is not affected by this call.",
		),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Project id")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithNumber("client_id", mcp.Description("Move to another client")),
		mcp.WithNumber("on_behalf_of", mcp.Description("New employer id")),
		mcp.WithBoolean("clear_on_behalf_of", mcp.Description("Detach the employer")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("status", mcp.Description("active, paused, or completed")),
		mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("YYYY-MM-DD")),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updateProjectArgs struct {
	ID              int64     `json:"id"`
	Name            *string   `json:"name"`
	ClientID        *int64    `json:"client_id"`
	OnBehalfOf      *int64    `json:"on_behalf_of"`
	ClearOnBehalfOf bool      `json:"clear_on_behalf_of"`
	Description     *string   `json:"description"`
	Status          *string   `json:"status"`
	StartDate       *string   `json:"start_date"`
	EndDate         *string   `json:"end_date"`
	Tags            *[]string `json:"tags"`
}

// Handle processes the update_project tool call.
func (t *UpdateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateProjectArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}

	params := store.UpdateProjectParams{
		Name:            args.Name,
		ClientID:        args.ClientID,
		OnBehalfOfID:    args.OnBehalfOf,
		ClearOnBehalfOf: args.ClearOnBehalfOf,
		Description:     args.Description,
		StartDate:       args.StartDate,
		EndDate:         args.EndDate,
	}
	if args.Status != nil {
		ps := store.ProjectStatus(*args.Status)
		params.Status = &ps
	}
	if args.Tags != nil {
		tags := tagsOf(*args.Tags)
		params.Tags = &tags
	}

	p, err := t.store.UpdateProject(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(p)
}
