package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// GetUser returns the singleton profile row, creating it from the
// configured defaults on first access.
func (s *Store) GetUser(ctx context.Context) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `SELECT * FROM users ORDER BY id LIMIT 1`)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, translateErr("get user", err)
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, timezone, default_week_boundary, default_privacy_level, created_at, updated_at)
		VALUES ('', '', ?, ?, ?, ?, ?)`,
		s.opts.Timezone.String(), string(s.opts.WeekBoundary), s.opts.DefaultPrivacy, now, now)
	if err != nil {
		return nil, translateErr("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create user", err)
	}
	if err := s.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, translateErr("get user", err)
	}
	return &u, nil
}

// UpdateUserParams carry optional profile updates; nil means "leave
// unchanged".
type UpdateUserParams struct {
	Name                *string
	Email               *string
	Timezone            *string
	DefaultWeekBoundary *string
	DefaultPrivacyLevel *PrivacyLevel
}

// UpdateUser applies profile changes to the singleton row. Timezone,
// week boundary, and privacy values are validated before storage.
func (s *Store) UpdateUser(ctx context.Context, p UpdateUserParams) (*User, error) {
	u, err := s.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Timezone != nil {
		if _, err := time.LoadLocation(*p.Timezone); err != nil {
			return nil, apperr.Newf(apperr.InvalidArgument, "timezone %q is not a valid IANA name", *p.Timezone)
		}
		u.Timezone = *p.Timezone
	}
	if p.DefaultWeekBoundary != nil {
		if !timeutil.WeekBoundary(*p.DefaultWeekBoundary).Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "week boundary %q: must be mon-fri, sun-sat, or mon-sun", *p.DefaultWeekBoundary)
		}
		u.DefaultWeekBoundary = *p.DefaultWeekBoundary
	}
	if p.DefaultPrivacyLevel != nil {
		if !p.DefaultPrivacyLevel.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", *p.DefaultPrivacyLevel)
		}
		u.DefaultPrivacyLevel = *p.DefaultPrivacyLevel
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, timezone = ?, default_week_boundary = ?,
			default_privacy_level = ?, updated_at = ?
		WHERE id = ?`,
		u.Name, u.Email, u.Timezone, u.DefaultWeekBoundary,
		u.DefaultPrivacyLevel, s.nowUTC(), u.ID)
	if err != nil {
		return nil, translateErr("update user", err)
	}
	return s.GetUser(ctx)
}
