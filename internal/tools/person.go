package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/store"
)

// AddPersonTool handles the add_person MCP tool.
type AddPersonTool struct {
	store *store.Store
}

// NewAddPersonTool creates an AddPersonTool.
func NewAddPersonTool(s *store.Store) *AddPersonTool {
	return &AddPersonTool{store: s}
}

// Definition returns the MCP tool definition for add_person.
func (t *AddPersonTool) Definition() mcp.Tool {
	return mcp.NewTool("add_person",
		mcp.WithDescription("Add a person: a contact, optionally flagged as a stakeholder."),
		mcp.WithString("full_name", mcp.Required(), mcp.Description("Full name")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("phone", mcp.Description("Phone number")),
		mcp.WithString("linkedin_url", mcp.Description("LinkedIn profile URL")),
		mcp.WithString("company", mcp.Description("Current company")),
		mcp.WithString("title", mcp.Description("Job title")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
		mcp.WithObject("additional_info", mcp.Description("Arbitrary structured details")),
		mcp.WithBoolean("is_stakeholder", mcp.Description("Whether this person is a stakeholder")),
		mcp.WithArray("tags", mcp.Description("Free-form tags"), mcp.WithStringItems()),
	)
}

type addPersonArgs struct {
	FullName       string           `json:"full_name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	LinkedinURL    *string          `json:"linkedin_url"`
	Company        *string          `json:"company"`
	Title          *string          `json:"title"`
	Notes          *string          `json:"notes"`
	AdditionalInfo store.JSONObject `json:"additional_info"`
	IsStakeholder  bool             `json:"is_stakeholder"`
	Tags           []string         `json:"tags"`
}

// Handle processes the add_person tool call.
func (t *AddPersonTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addPersonArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	p, err := t.store.CreatePerson(ctx, store.CreatePersonParams{
		FullName:       args.FullName,
		Email:          args.Email,
		Phone:          args.Phone,
		LinkedinURL:    args.LinkedinURL,
		Company:        args.Company,
		Title:          args.Title,
		Notes:          args.Notes,
		AdditionalInfo: args.AdditionalInfo,
		IsStakeholder:  args.IsStakeholder,
		Tags:           tagsOf(args.Tags),
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(p)
}

// ─── UpdatePersonTool ───────────────────────────────────────────────────────

// UpdatePersonTool handles the update_person MCP tool.
type UpdatePersonTool struct {
	store *store.Store
}

// NewUpdatePersonTool creates an UpdatePersonTool.
func NewUpdatePersonTool(s *store.Store) *UpdatePersonTool {
	return &UpdatePersonTool{store: s}
}

// Definition returns the MCP tool definition for update_person.
func (t *UpdatePersonTool) Definition() mcp.Tool {
	return mcp.NewTool("update_person",
		mcp.WithDescription("Update a person. Only the supplied fields change."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Person id")),
		mcp.WithString("full_name", mcp.Description("New full name")),
		mcp.WithString("email", mcp.Description("New email")),
		mcp.WithString("phone", mcp.Description("New phone")),
		mcp.WithString("linkedin_url", mcp.Description("New LinkedIn URL")),
		mcp.WithString("company", mcp.Description("New company")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("notes", mcp.Description("New notes")),
		mcp.WithObject("additional_info", mcp.Description("Replacement structured details")),
		mcp.WithBoolean("is_stakeholder", mcp.Description("New stakeholder flag")),
		mcp.WithArray("tags", mcp.Description("Replacement tag set"), mcp.WithStringItems()),
	)
}

type updatePersonArgs struct {
	ID             int64            `json:"id"`
	FullName       *string          `json:"full_name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	LinkedinURL    *string          `json:"linkedin_url"`
	Company        *string          `json:"company"`
	Title          *string          `json:"title"`
	Notes          *string          `json:"notes"`
	AdditionalInfo store.JSONObject `json:"additional_info"`
	IsStakeholder  *bool            `json:"is_stakeholder"`
	Tags           *[]string        `json:"tags"`
}

// Handle processes the update_person tool call.
func (t *UpdatePersonTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updatePersonArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	params := store.UpdatePersonParams{
		FullName:       args.FullName,
		Email:          args.Email,
		Phone:          args.Phone,
		LinkedinURL:    args.LinkedinURL,
		Company:        args.Company,
		Title:          args.Title,
		Notes:          args.Notes,
		AdditionalInfo: args.AdditionalInfo,
		IsStakeholder:  args.IsStakeholder,
	}
	if args.Tags != nil {
		tags := tagsOf(*args.Tags)
		params.Tags = &tags
	}
	p, err := t.store.UpdatePerson(ctx, args.ID, params)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(p)
}

// ─── AddEmploymentHistoryTool ───────────────────────────────────────────────

// AddEmploymentHistoryTool handles the add_employment_history MCP tool.
type AddEmploymentHistoryTool struct {
	store *store.Store
}

// NewAddEmploymentHistoryTool creates an AddEmploymentHistoryTool.
func NewAddEmploymentHistoryTool(s *store.Store) *AddEmploymentHistoryTool {
	return &AddEmploymentHistoryTool{store: s}
}

// Definition returns the MCP tool definition for add_employment_history.
func (t *AddEmploymentHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("add_employment_history",
		mcp.WithDescription(
			"Record a person's role at a client. Omitting end_date marks the engagement as current "+
				"and closes any previous current engagement for the same person and client.",
		),
		mcp.WithNumber("person_id", mcp.Required(), mcp.Description("Person id")),
		mcp.WithNumber("client_id", mcp.Required(), mcp.Description("Client id")),
		mcp.WithString("role", mcp.Required(), mcp.Description("Role held")),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("YYYY-MM-DD; omit for a current engagement")),
	)
}

type addEmploymentArgs struct {
	PersonID  int64   `json:"person_id"`
	ClientID  int64   `json:"client_id"`
	Role      string  `json:"role"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// Handle processes the add_employment_history tool call.
func (t *AddEmploymentHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addEmploymentArgs
	if err := decodeArgs(req, &args); err != nil {
		return errResult(err), nil
	}
	eh, err := t.store.AddEmployment(ctx, store.AddEmploymentParams{
		PersonID:  args.PersonID,
		ClientID:  args.ClientID,
		Role:      args.Role,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
	})
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(eh)
}
