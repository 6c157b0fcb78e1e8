package store

import (
	"context"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// CreateEmployerParams are the caller-supplied fields for a new employer.
type CreateEmployerParams struct {
	Name  string
	Notes *string
	Tags  Tags
}

// CreateEmployer inserts an employer and returns the stored row.
func (s *Store) CreateEmployer(ctx context.Context, p CreateEmployerParams) (*Employer, error) {
	if p.Name == "" {
		return nil, apperr.New(apperr.InvalidArgument, "employer name is required")
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employers (name, notes, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Notes, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create employer", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create employer", err)
	}
	return s.GetEmployer(ctx, id)
}

// GetEmployer fetches one employer by id.
func (s *Store) GetEmployer(ctx context.Context, id int64) (*Employer, error) {
	var e Employer
	err := s.db.GetContext(ctx, &e, `SELECT * FROM employers WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get employer", err)
	}
	return &e, nil
}

// UpdateEmployerParams carry optional field updates; nil means "leave
// unchanged".
type UpdateEmployerParams struct {
	Name  *string
	Notes *string
	Tags  *Tags
}

// UpdateEmployer applies the given changes and returns the updated row.
func (s *Store) UpdateEmployer(ctx context.Context, id int64, p UpdateEmployerParams) (*Employer, error) {
	e, err := s.GetEmployer(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, apperr.New(apperr.InvalidArgument, "employer name cannot be empty")
		}
		e.Name = *p.Name
	}
	if p.Notes != nil {
		e.Notes = p.Notes
	}
	if p.Tags != nil {
		e.Tags = p.Tags.Normalize()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE employers SET name = ?, notes = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.Notes, e.Tags, s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("update employer", err)
	}
	return s.GetEmployer(ctx, id)
}
