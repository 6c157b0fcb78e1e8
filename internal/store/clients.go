package store

import (
	"context"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// CreateClientParams are the caller-supplied fields for a new client.
type CreateClientParams struct {
	Name            string
	Type            ClientType
	Status          ClientStatus
	ContactPersonID *int64
	Notes           *string
	Tags            Tags
}

// CreateClient inserts a client and returns the stored row. Status
// defaults to active.
func (s *Store) CreateClient(ctx context.Context, p CreateClientParams) (*Client, error) {
	if p.Name == "" {
		return nil, apperr.New(apperr.InvalidArgument, "client name is required")
	}
	if !p.Type.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "client type %q: must be company or individual", p.Type)
	}
	if p.Status == "" {
		p.Status = ClientActive
	}
	if !p.Status.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "client status %q: must be active or past", p.Status)
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (name, type, status, contact_person_id, notes, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Type, p.Status, p.ContactPersonID, p.Notes, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create client", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create client", err)
	}
	return s.GetClient(ctx, id)
}

// GetClient fetches one client by id.
func (s *Store) GetClient(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := s.db.GetContext(ctx, &c, `SELECT * FROM clients WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get client", err)
	}
	return &c, nil
}

// UpdateClientParams carry optional field updates; nil means "leave
// unchanged". ClearContactPerson detaches the contact without setting a
// new one.
type UpdateClientParams struct {
	Name               *string
	Type               *ClientType
	Status             *ClientStatus
	ContactPersonID    *int64
	ClearContactPerson bool
	Notes              *string
	Tags               *Tags
}

// UpdateClient applies the given changes and returns the updated row.
func (s *Store) UpdateClient(ctx context.Context, id int64, p UpdateClientParams) (*Client, error) {
	c, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, apperr.New(apperr.InvalidArgument, "client name cannot be empty")
		}
		c.Name = *p.Name
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "client type %q: must be company or individual", *p.Type)
		}
		c.Type = *p.Type
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "client status %q: must be active or past", *p.Status)
		}
		c.Status = *p.Status
	}
	if p.ClearContactPerson {
		c.ContactPersonID = nil
	} else if p.ContactPersonID != nil {
		c.ContactPersonID = p.ContactPersonID
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
	if p.Tags != nil {
		c.Tags = p.Tags.Normalize()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE clients SET name = ?, type = ?, status = ?, contact_person_id = ?,
			notes = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Type, c.Status, c.ContactPersonID, c.Notes, c.Tags, s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("update client", err)
	}
	return s.GetClient(ctx, id)
}
