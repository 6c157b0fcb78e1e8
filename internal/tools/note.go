package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// AddNoteTool handles the add_note MCP tool.
type AddNoteTool struct {
	store *store.Store
}

// NewAddNoteTool creates an AddNoteTool.
func NewAddNoteTool(s *store.Store) *AddNoteTool {
	return &AddNoteTool{store: s}
}

// Definition returns the MCP tool definition for add_note.
func (t *AddNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("add_note",
		mcp.WithDescription(
			"Add a free-text note, optionally attached to an entity. "+
				"entity_type and entity_id come as a pair or not at all.",
		),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
		mcp.WithString("privacy_level", mcp.Description("public, internal, or private (default: your configured default)")),
		mcp.WithString("entity_type", mcp.Description("person, client, project, employer, work_session, meeting, note, or reminder")),
		mcp.WithNumber("entity_id", mcp.Description("Id of the attached entity")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type addNoteArgs struct {
	Text         string   `json:"text"`
	PrivacyLevel string   `json:"privacy_level"`
	EntityType   *string  `json:"entity_type"`
	EntityID     *int64   `json:"entity_id"`
	Tags         []string `json:"tags"`
}

// Handle processes the add_note tool call.
func (t *AddNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addNoteArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	privacy, err := privacyOf(args.PrivacyLevel)
	if err != nil {
		return errResult(err), nil
	}
	et, err := entityTypeOf(args.EntityType)
	if err != nil {
		return errResult(err), nil
	}
	n, err := t.store.CreateNote(ctx, store.CreateNoteParams{
		Text:         args.Text,
		PrivacyLevel: privacy,
		EntityType:   et,
		EntityID:     args.EntityID,
		Tags:         tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(n)
}

// ─── UpdateNoteTool ─────────────────────────────────────────────────────────

// UpdateNoteTool handles the update_note MCP tool.
type UpdateNoteTool struct {
	store *store.Store
}

// NewUpdateNoteTool creates an UpdateNoteTool.
func NewUpdateNoteTool(s *store.Store) *UpdateNoteTool {
	return &UpdateNoteTool{store: s}
}

// Definition returns the MCP tool definition for update_note.
func (t *UpdateNoteTool) Definition() mcp.Tool {
	return mcp.NewTool("update_note",
		mcp.WithDescription("Update a note. Only the supplied fields change."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("text", mcp.Description("New text")),
		mcp.WithString("privacy_level", mcp.Description("public, internal, or private")),
		mcp.WithString("entity_type", mcp.Description("New attachment entity type")),
		mcp.WithNumber("entity_id", mcp.Description("New attachment entity id")),
		mcp.WithBoolean("clear_entity", mcp.Description("Detach the note from its entity")),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updateNoteArgs struct {
	ID           int64     `json:"id"`
	Text         *string   `json:"text"`
	PrivacyLevel *string   `json:"privacy_level"`
	EntityType   *string   `json:"entity_type"`
	EntityID     *int64    `json:"entity_id"`
	ClearEntity  bool      `json:"clear_entity"`
	Tags         *[]string `json:"tags"`
}

// Handle processes the update_note tool call.
func (t *UpdateNoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateNoteArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	et, err := entityTypeOf(args.EntityType)
	if err != nil {
		return errResult(err), nil
	}

	params := store.UpdateNoteParams{
		Text:        args.Text,
		EntityType:  et,
		EntityID:    args.EntityID,
		ClearEntity: args.ClearEntity,
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

	n, err := t.store.UpdateNote(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(n)
}
