package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// CreateMeetingParams are the caller-supplied fields for a new meeting.
type CreateMeetingParams struct {
	Title           string
	StartTime       time.Time
	DurationMinutes int
	Summary         *string
	PrivacyLevel    PrivacyLevel
	ProjectID       *int64
	MeetingType     *string
	Location        *string
	AttendeeIDs     []int64
	Tags            Tags
}

// CreateMeeting records a meeting, its attendee links, and, when the
// meeting is tied to a project, an automatic work session covering it.
// Everything happens in one transaction: a missing project or attendee
// leaves nothing behind. The auto session's duration comes from the
// same half-hour rounding as manual sessions.
func (s *Store) CreateMeeting(ctx context.Context, p CreateMeetingParams) (*Meeting, *WorkSession, error) {
	if p.Title == "" {
		return nil, nil, apperr.New(apperr.InvalidArgument, "meeting title is required")
	}
	if p.DurationMinutes <= 0 {
		return nil, nil, apperr.Newf(apperr.InvalidArgument, "meeting duration %d: must be a positive number of minutes", p.DurationMinutes)
	}
	if p.PrivacyLevel == "" {
		p.PrivacyLevel = s.opts.DefaultPrivacy
	}
	if !p.PrivacyLevel.Valid() {
		return nil, nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", p.PrivacyLevel)
	}

	var meetingID, sessionID int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if p.ProjectID != nil {
			var exists int
			err := tx.GetContext(ctx, &exists, `SELECT 1 FROM projects WHERE id = ?`, *p.ProjectID)
			if err != nil {
				if e := translateErr("verify project", err); !apperr.IsKind(e, apperr.NotFound) {
					return e
				}
				return apperr.Newf(apperr.NotFound, "project %d does not exist", *p.ProjectID)
			}
		}

		now := s.nowUTC()
		tags := p.Tags.Normalize()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO meetings (title, start_time, duration_minutes, summary, privacy_level,
				project_id, meeting_type, location, tags, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.StartTime.UTC().Format(time.RFC3339), p.DurationMinutes,
			p.Summary, p.PrivacyLevel, p.ProjectID, p.MeetingType, p.Location,
			tags, now, now)
		if err != nil {
			return translateErr("create meeting", err)
		}
		meetingID, err = res.LastInsertId()
		if err != nil {
			return translateErr("create meeting", err)
		}

		for _, personID := range p.AttendeeIDs {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO meeting_attendees (meeting_id, person_id) VALUES (?, ?)`,
				meetingID, personID)
			if err != nil {
				return translateErr("add attendee", err)
			}
		}

		if p.ProjectID != nil {
			end := p.StartTime.Add(time.Duration(p.DurationMinutes) * time.Minute)
			res, err := tx.ExecContext(ctx, `
				INSERT INTO work_sessions (project_id, date, start_time, end_time, duration_hours,
					summary, privacy_level, tags, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				*p.ProjectID, timeutil.LocalDate(p.StartTime, s.opts.Timezone),
				p.StartTime.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339),
				HoursOf(timeutil.RoundHalfHour(p.DurationMinutes)),
				p.Title, p.PrivacyLevel, tags, now, now)
			if err != nil {
				return translateErr("create meeting session", err)
			}
			sessionID, err = res.LastInsertId()
			if err != nil {
				return translateErr("create meeting session", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	m, err := s.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}
	var ws *WorkSession
	if sessionID != 0 {
		if ws, err = s.GetWorkSession(ctx, sessionID); err != nil {
			return nil, nil, err
		}
	}
	return m, ws, nil
}

// GetMeeting fetches one meeting with its attendee ids.
func (s *Store) GetMeeting(ctx context.Context, id int64) (*Meeting, error) {
	var m Meeting
	if err := s.db.GetContext(ctx, &m, `SELECT * FROM meetings WHERE id = ?`, id); err != nil {
		return nil, translateErr("get meeting", err)
	}
	if err := s.db.SelectContext(ctx, &m.AttendeeIDs, `
		SELECT person_id FROM meeting_attendees WHERE meeting_id = ? ORDER BY person_id`, id); err != nil {
		return nil, translateErr("get meeting attendees", err)
	}
	if m.AttendeeIDs == nil {
		m.AttendeeIDs = []int64{}
	}
	return &m, nil
}

// UpdateMeetingParams carry optional field updates; nil means "leave
// unchanged". AttendeeIDs, when non-nil, replaces the attendee set.
type UpdateMeetingParams struct {
	Title           *string
	StartTime       *time.Time
	DurationMinutes *int
	Summary         *string
	PrivacyLevel    *PrivacyLevel
	ProjectID       *int64
	ClearProject    bool
	MeetingType     *string
	Location        *string
	AttendeeIDs     []int64
	Tags            *Tags
}

// UpdateMeeting applies the given changes. Changing the project link
// does not retroactively create or remove the auto work session; the
// session logged at creation stands on its own.
func (s *Store) UpdateMeeting(ctx context.Context, id int64, p UpdateMeetingParams) (*Meeting, error) {
	m, err := s.GetMeeting(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		if *p.Title == "" {
			return nil, apperr.New(apperr.InvalidArgument, "meeting title cannot be empty")
		}
		m.Title = *p.Title
	}
	if p.StartTime != nil {
		m.StartTime = p.StartTime.UTC().Format(time.RFC3339)
	}
	if p.DurationMinutes != nil {
		if *p.DurationMinutes <= 0 {
			return nil, apperr.Newf(apperr.InvalidArgument, "meeting duration %d: must be a positive number of minutes", *p.DurationMinutes)
		}
		m.DurationMinutes = *p.DurationMinutes
	}
	if p.Summary != nil {
		m.Summary = p.Summary
	}
	if p.PrivacyLevel != nil {
		if !p.PrivacyLevel.Valid() {
			return nil, apperr.Newf(apperr.InvalidArgument, "privacy level %q: must be public, internal, or private", *p.PrivacyLevel)
		}
		m.PrivacyLevel = *p.PrivacyLevel
	}
	if p.ClearProject {
		m.ProjectID = nil
	} else if p.ProjectID != nil {
		m.ProjectID = p.ProjectID
	}
	if p.MeetingType != nil {
		m.MeetingType = p.MeetingType
	}
	if p.Location != nil {
		m.Location = p.Location
	}
	if p.Tags != nil {
		m.Tags = p.Tags.Normalize()
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE meetings SET title = ?, start_time = ?, duration_minutes = ?, summary = ?,
				privacy_level = ?, project_id = ?, meeting_type = ?, location = ?,
				tags = ?, updated_at = ?
			WHERE id = ?`,
			m.Title, m.StartTime, m.DurationMinutes, m.Summary,
			m.PrivacyLevel, m.ProjectID, m.MeetingType, m.Location,
			m.Tags, s.nowUTC(), id)
		if err != nil {
			return translateErr("update meeting", err)
		}
		if p.AttendeeIDs != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM meeting_attendees WHERE meeting_id = ?`, id); err != nil {
				return translateErr("replace attendees", err)
			}
			for _, personID := range p.AttendeeIDs {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO meeting_attendees (meeting_id, person_id) VALUES (?, ?)`,
					id, personID)
				if err != nil {
					return translateErr("replace attendees", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeeting(ctx, id)
}
