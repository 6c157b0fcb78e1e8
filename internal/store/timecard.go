package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// genericSummary replaces internal session summaries on external
// timecards.
const genericSummary = "Project work"

// TimecardRow is one day's billable total for a project.
type TimecardRow struct {
	Date    string `json:"date"`
	Hours   Hours  `json:"hours"`
	Summary string `json:"summary"`
}

// Timecard aggregates a project's work sessions between two dates
// (inclusive) into per-day rows, ascending by date. Privacy rules:
// public sessions always appear with their real summary; internal
// sessions always count toward hours but their summaries collapse to a
// generic line unless includePrivate is set; private sessions are
// omitted entirely unless includePrivate is set. Hours are summed as
// decimals, never through floats.
func (s *Store) Timecard(ctx context.Context, projectID int64, from, to string, includePrivate bool) ([]TimecardRow, error) {
	if !validDate(from) || !validDate(to) {
		return nil, apperr.Newf(apperr.InvalidArgument, "timecard range %q..%q: want YYYY-MM-DD dates", from, to)
	}
	if from > to {
		return nil, apperr.Newf(apperr.InvalidArgument, "timecard range %q..%q: start is after end", from, to)
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	var sessions []WorkSession
	err := s.db.SelectContext(ctx, &sessions, `
		SELECT * FROM work_sessions
		WHERE project_id = ? AND date >= ? AND date <= ?
		ORDER BY date, start_time, id`, projectID, from, to)
	if err != nil {
		return nil, translateErr("timecard sessions", err)
	}

	rows := make([]TimecardRow, 0)
	var cur *TimecardRow
	var summaries []string
	flush := func() {
		if cur == nil {
			return
		}
		cur.Summary = strings.Join(summaries, "; ")
		rows = append(rows, *cur)
		cur, summaries = nil, nil
	}

	for _, ws := range sessions {
		if ws.PrivacyLevel == PrivacyPrivate && !includePrivate {
			continue
		}
		if cur == nil || cur.Date != ws.Date {
			flush()
			cur = &TimecardRow{Date: ws.Date, Hours: HoursOf(decimal.Zero)}
		}
		cur.Hours = HoursOf(cur.Hours.Add(ws.DurationHours.Decimal))

		summary := ""
		if ws.Summary != nil {
			summary = *ws.Summary
		}
		if ws.PrivacyLevel == PrivacyInternal && !includePrivate {
			summary = genericSummary
		}
		if summary != "" && !contains(summaries, summary) {
			summaries = append(summaries, summary)
		}
	}
	flush()
	return rows, nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
