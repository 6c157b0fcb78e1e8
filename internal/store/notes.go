package store

import (
	"context"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// CreateNoteParams are the caller-supplied fields for a new note. An
// entity attachment requires both type and id.
type CreateNoteParams struct {
	Text         string
	PrivacyLevel PrivacyLevel
	EntityType   *EntityType
	EntityID     *int64
	Tags         Tags
}

// CreateNote inserts a note and returns the stored row.
func (s *Store) CreateNote(ctx context.Context, p CreateNoteParams) (*Note, error) {
	if p.Text == "" {
		return nil, apperr.New(apperr.InvalidArgument, "note text is required")
	}
	if err := validateAttachment(p.EntityType, p.EntityID); err != nil {
		return nil, err
	}
	if p.PrivacyLevel == "" {
		p.PrivacyLevel = s.opts.DefaultPrivacy
	}
	if !p.PrivacyLevel.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", p.PrivacyLevel)
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (text, privacy_level, entity_type, entity_id, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Text, p.PrivacyLevel, p.EntityType, p.EntityID, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create note", err)
	}
	return s.GetNote(ctx, id)
}

// GetNote fetches one note by id.
func (s *Store) GetNote(ctx context.Context, id int64) (*Note, error) {
	var n Note
	err := s.db.GetContext(ctx, &n, `SELECT * FROM notes WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get note", err)
	}
	return &n, nil
}

// UpdateNoteParams carry optional field updates; nil means "leave
// unchanged". ClearEntity detaches the note from its entity.
type UpdateNoteParams struct {
	Text         *string
	PrivacyLevel *PrivacyLevel
	EntityType   *EntityType
	EntityID     *int64
	ClearEntity  bool
	Tags         *Tags
}

// UpdateNote applies the given changes and returns the updated row.
func (s *Store) UpdateNote(ctx context.Context, id int64, p UpdateNoteParams) (*Note, error) {
	n, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Text != nil {
		if *p.Text == "" {
			return nil, apperr.New(apperr.InvalidArgument, "note text cannot be empty")
		}
		n.Text = *p.Text
	}
	if p.PrivacyLevel != nil {
		if !p.PrivacyLevel.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", *p.PrivacyLevel)
		}
		n.PrivacyLevel = *p.PrivacyLevel
	}
	if p.ClearEntity {
		n.EntityType, n.EntityID = nil, nil
	} else {
		if p.EntityType != nil {
			n.EntityType = p.EntityType
		}
		if p.EntityID != nil {
			n.EntityID = p.EntityID
		}
	}
	if err := validateAttachment(n.EntityType, n.EntityID); err != nil {
		return nil, err
	}
	if p.Tags != nil {
		n.Tags = p.Tags.Normalize()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE notes SET text = ?, privacy_level = ?, entity_type = ?, entity_id = ?,
			tags = ?, updated_at = ?
		WHERE id = ?`,
		n.Text, n.PrivacyLevel, n.EntityType, n.EntityID, n.Tags, s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("update note", err)
	}
	return s.GetNote(ctx, id)
}

// validateAttachment enforces that entity type and id come as a pair,
// with a known type.
func validateAttachment(et *EntityType, id *int64) error {
	if (et == nil) != (id == nil) {
		return apperr.New(apperr.InvalidArgument, "entity_type and entity_id must be supplied together")
	}
	if et != nil && !et.Valid() {
		return apperr.Newf(apperr.InvalidArgument, "entity type %q is not recognized", *et)
	}
	return nil
}
