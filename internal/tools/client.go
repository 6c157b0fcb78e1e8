package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
)

// AddClientTool handles the add_client MCP tool.
type AddClientTool struct {
	store *store.Store
}

// NewAddClientTool creates an AddClientTool.
func NewAddClientTool(s *store.Store) *AddClientTool {
	return &AddClientTool{store: s}
}

// Definition returns the MCP tool definition for add_client.
func (t *AddClientTool) Definition() mcp.Tool {
	return mcp.NewTool("add_client",
		mcp.WithDescription("Add a client: a company or individual that owns projects."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Client name")),
		mcp.WithString("type", mcp.Required(), mcp.Description("company or individual")),
		mcp.WithString("status", mcp.Description("active or past (default: active)")),
		mcp.WithNumber("contact_person_id", mcp.Description("Primary contact person id")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type addClientArgs struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	ContactPersonID *int64   `json:"contact_person_id"`
	Notes           *string  `json:"notes"`
	Tags            []string `json:"tags"`
}

// Handle processes the add_client tool call.
func (t *AddClientTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addClientArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	c, err := t.store.CreateClient(ctx, store.CreateClientParams{
		Name:            args.Name,
		Type:            store.ClientType(args.Type),
		Status:          store.ClientStatus(args.Status),
		ContactPersonID: args.ContactPersonID,
		Notes:           args.Notes,
		Tags:            tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(c)
}

// ─── UpdateClientTool ───────────────────────────────────────────────────────

// UpdateClientTool handles the update_client MCP tool.
type UpdateClientTool struct {
	store *store.Store
}

// NewUpdateClientTool creates an UpdateClientTool.
func NewUpdateClientTool(s *store.Store) *UpdateClientTool {
	return &UpdateClientTool{store: s}
}

// Definition returns the MCP tool definition for update_client.
func (t *UpdateClientTool) Definition() mcp.Tool {
	return mcp.NewTool("update_client",
		mcp.WithDescription("Update a client. Only the supplied fields change."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Client id")),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("type", mcp.Description("company or individual")),
		mcp.WithString("status", mcp.Description("active or past")),
		mcp.WithNumber("contact_person_id", mcp.Description("New contact person id")),
		mcp.WithBoolean("clear_contact_person", mcp.Description("Detach the contact person")),
		mcp.WithString("notes", mcp.Description("New notes")),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updateClientArgs struct {
	ID                 int64     `json:"id"`
	Name               *string   `json:"name"`
	Type               *string   `json:"type"`
	Status             *string   `json:"status"`
	ContactPersonID    *int64    `json:"contact_person_id"`
	ClearContactPerson bool      `json:"clear_contact_person"`
	Notes              *string   `json:"notes"`
	Tags               *[]string `json:"tags"`
}

// Handle processes the update_client tool call.
func (t *UpdateClientTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateClientArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	if args.ContactPersonID != nil && args.ClearContactPerson {
		return errResult(apperr.New(apperr.InvalidArgument,
			"contact_person_id and clear_contact_person are mutually exclusive")), nil
	}

	params := store.UpdateClientParams{
		Name:               args.Name,
		ContactPersonID:    args.ContactPersonID,
		ClearContactPerson: args.ClearContactPerson,
		Notes:              args.Notes,
	}
	if args.Type != nil {
		ct := store.ClientType(*args.Type)
		params.Type = &ct
	}
	if args.Status != nil {
		cs := store.ClientStatus(*args.Status)
		params.Status = &cs
	}
	if args.Tags != nil {
		tags := tagsOf(*args.Tags)
		params.Tags = &tags
	}

	c, err := t.store.UpdateClient(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(c)
}
