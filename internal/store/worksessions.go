package store

import (
	"context"
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// CreateWorkSessionParams are the caller-supplied fields for a new work
// session. Start and end are instants; the stored date and rounded
// duration are derived here.
type CreateWorkSessionParams struct {
	ProjectID    int64
	StartTime    time.Time
	EndTime      time.Time
	Summary      *string
	PrivacyLevel PrivacyLevel
	Tags         Tags
}

// CreateWorkSession records a session, deriving its local date from the
// start instant and its billable duration from the half-hour rounding
// contract. Privacy defaults to the configured default.
func (s *Store) CreateWorkSession(ctx context.Context, p CreateWorkSessionParams) (*WorkSession, error) {
	dur, err := timeutil.DurationRounded(p.StartTime, p.EndTime)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, "work session times", err)
	}
	if p.PrivacyLevel == "" {
		p.PrivacyLevel = s.opts.DefaultPrivacy
	}
	if !p.PrivacyLevel.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", p.PrivacyLevel)
	}

	date := timeutil.LocalDate(p.StartTime, s.opts.Timezone)
	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO work_sessions (project_id, date, start_time, end_time, duration_hours,
			summary, privacy_level, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, date,
		p.StartTime.UTC().Format(time.RFC3339), p.EndTime.UTC().Format(time.RFC3339),
		HoursOf(dur), p.Summary, p.PrivacyLevel, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create work session", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create work session", err)
	}
	return s.GetWorkSession(ctx, id)
}

// GetWorkSession fetches one work session by id.
func (s *Store) GetWorkSession(ctx context.Context, id int64) (*WorkSession, error) {
	var ws WorkSession
	err := s.db.GetContext(ctx, &ws, `SELECT * FROM work_sessions WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get work session", err)
	}
	return &ws, nil
}

// UpdateWorkSessionParams carry optional field updates; nil means
// "leave unchanged". Changing either endpoint recomputes the stored
// date and duration.
type UpdateWorkSessionParams struct {
	ProjectID    *int64
	StartTime    *time.Time
	EndTime      *time.Time
	Summary      *string
	PrivacyLevel *PrivacyLevel
	Tags         *Tags
}

// UpdateWorkSession applies the given changes. Date and duration are
// never patched directly; they follow from the (possibly updated)
// endpoints so a session can't drift out of the rounding contract.
func (s *Store) UpdateWorkSession(ctx context.Context, id int64, p UpdateWorkSessionParams) (*WorkSession, error) {
	ws, err := s.GetWorkSession(ctx, id)
	if err != nil {
		return nil, err
	}

	start, err := parseStoredTime(ws.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseStoredTime(ws.EndTime)
	if err != nil {
		return nil, err
	}
	if p.StartTime != nil {
		start = *p.StartTime
	}
	if p.EndTime != nil {
		end = *p.EndTime
	}
	dur, err := timeutil.DurationRounded(start, end)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidArgument, "work session times", err)
	}

	if p.ProjectID != nil {
		ws.ProjectID = *p.ProjectID
	}
	if p.Summary != nil {
		ws.Summary = p.Summary
	}
	if p.PrivacyLevel != nil {
		if !p.PrivacyLevel.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", *p.PrivacyLevel)
		}
		ws.PrivacyLevel = *p.PrivacyLevel
	}
	if p.Tags != nil {
		ws.Tags = p.Tags.Normalize()
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE work_sessions SET project_id = ?, date = ?, start_time = ?, end_time = ?,
			duration_hours = ?, summary = ?, privacy_level = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		ws.ProjectID, timeutil.LocalDate(start, s.opts.Timezone),
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339),
		HoursOf(dur), ws.Summary, ws.PrivacyLevel, ws.Tags, s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("update work session", err)
	}
	return s.GetWorkSession(ctx, id)
}
