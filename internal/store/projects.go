package store

import (
	"context"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// CreateProjectParams are the caller-supplied fields for a new project.
type CreateProjectParams struct {
	Name         string
	ClientID     int64
	OnBehalfOfID *int64
	Description  *string
	Status       ProjectStatus
	StartDate    *string
	EndDate      *string
	Tags         Tags
}

// CreateProject inserts a project and returns the stored row. Status
// defaults to active; a completed project must carry an end date.
func (s *Store) CreateProject(ctx context.Context, p CreateProjectParams) (*Project, error) {
	if p.Name == "" {
		return nil, apperr.New(apperr.InvalidArgument, "project name is required")
	}
	if p.Status == "" {
		p.Status = ProjectActive
	}
	if !p.Status.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "project status %q: must be active, paused, or completed", p.Status)
	}
	if p.Status == ProjectCompleted && p.EndDate == nil {
		return nil, apperr.New(apperr.InvalidArgument, "a completed project requires an end date")
	}
	if p.StartDate != nil && !validDate(*p.StartDate) {
		return nil, apperr.Newf(apperr.InvalidArgument, "start date %q: want YYYY-MM-DD", *p.StartDate)
	}
	if p.EndDate != nil && !validDate(*p.EndDate) {
		return nil, apperr.Newf(apperr.InvalidArgument, "end date %q: want YYYY-MM-DD", *p.EndDate)
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (name, client_id, on_behalf_of_id, description, status,
			start_date, end_date, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.ClientID, p.OnBehalfOfID, p.Description, p.Status,
		p.StartDate, p.EndDate, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create project", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create project", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches one project by id.
func (s *Store) GetProject(ctx context.Context, id int64) (*Project, error) {
	var pr Project
	err := s.db.GetContext(ctx, &pr, `SELECT * FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get project", err)
	}
	return &pr, nil
}

// UpdateProjectParams carry optional field updates; nil means "leave
// unchanged".
type UpdateProjectParams struct {
	Name            *string
	ClientID        *int64
	OnBehalfOfID    *int64
	ClearOnBehalfOf bool
	Description     *string
	Status          *ProjectStatus
	StartDate       *string
	EndDate         *string
	Tags            *Tags
}

// UpdateProject applies the given changes and returns the updated row.
// Marking a project completed without an end date (existing or
// supplied) is rejected.
func (s *Store) UpdateProject(ctx context.Context, id int64, p UpdateProjectParams) (*Project, error) {
	pr, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, apperr.New(apperr.InvalidArgument, "project name cannot be empty")
		}
		pr.Name = *p.Name
	}
	if p.ClientID != nil {
		pr.ClientID = *p.ClientID
	}
	if p.ClearOnBehalfOf {
		pr.OnBehalfOfID = nil
	} else if p.OnBehalfOfID != nil {
		pr.OnBehalfOfID = p.OnBehalfOfID
	}
	if p.Description != nil {
		pr.Description = p.Description
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "project status %q: must be active, paused, or completed", *p.Status)
		}
		pr.Status = *p.Status
	}
	if p.StartDate != nil {
		if !validDate(*p.StartDate) {
			return nil, apperr.Newf(apperr.InvalidArgument, "start date %q: want YYYY-MM-DD", *p.StartDate)
		}
		pr.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		if !validDate(*p.EndDate) {
			return nil, apperr.Newf(apperr.InvalidArgument, "end date %q: want YYYY-MM-DD", *p.EndDate)
		}
		pr.EndDate = p.EndDate
	}
	if p.Tags != nil {
		pr.Tags = p.Tags.Normalize()
	}
	if pr.Status == ProjectCompleted && pr.EndDate == nil {
		return nil, apperr.New(apperr.InvalidArgument, "a completed project requires an end date")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, client_id = ?, on_behalf_of_id = ?, description = ?,
			status = ?, start_date = ?, end_date = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		pr.Name, pr.ClientID, pr.OnBehalfOfID, pr.Description,
		pr.Status, pr.StartDate, pr.EndDate, pr.Tags, s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("update project", err)
	}
	return s.GetProject(ctx, id)
}
