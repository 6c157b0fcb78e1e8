package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
)

// logSession inserts a session at the given hour on the given day.
func logSession(t *testing.T, s *store.Store, projectID int64, day string, hour, minutes int, summary string, level store.PrivacyLevel) {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatal(err)
	}
	start := date.Add(time.Duration(hour) * time.Hour)
	var sum *string
	if summary != "" {
		sum = &summary
	}
	_, err = s.CreateWorkSession(context.Background(), store.CreateWorkSessionParams{
		ProjectID:    projectID,
		StartTime:    start,
		EndTime:      start.Add(time.Duration(minutes) * time.Minute),
		Summary:      sum,
		PrivacyLevel: level,
	})
	if err != nil {
		t.Fatalf("log session on %s: %v", day, err)
	}
}

func TestTimecard_GroupsByDateAndSumsDecimals(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)

	logSession(t, s, p.ID, "2026-08-03", 9, 90, "design", store.PrivacyPublic)
	logSession(t, s, p.ID, "2026-08-03", 14, 30, "review", store.PrivacyPublic)
	logSession(t, s, p.ID, "2026-08-05", 10, 60, "build", store.PrivacyPublic)

	rows, err := s.Timecard(context.Background(), p.ID, "2026-08-01", "2026-08-07", false)
	if err != nil {
		t.Fatalf("Timecard error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (empty days omitted)", len(rows))
	}
	if rows[0].Date != "2026-08-03" || rows[0].Hours.String() != "2.0" {
		t.Errorf("row 0 = %s %s, want 2026-08-03 2.0", rows[0].Date, rows[0].Hours)
	}
	if rows[0].Summary != "design; review" {
		t.Errorf("summary = %q, want sessions joined in start order", rows[0].Summary)
	}
	if rows[1].Date != "2026-08-05" || rows[1].Hours.String() != "1.0" {
		t.Errorf("row 1 = %s %s, want 2026-08-05 1.0", rows[1].Date, rows[1].Hours)
	}
}

func TestTimecard_PrivacyRules(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)

	logSession(t, s, p.ID, "2026-08-03", 9, 60, "public work", store.PrivacyPublic)
	logSession(t, s, p.ID, "2026-08-03", 11, 60, "internal detail", store.PrivacyInternal)
	logSession(t, s, p.ID, "2026-08-03", 14, 60, "secret", store.PrivacyPrivate)

	ctx := context.Background()

	external, err := s.Timecard(ctx, p.ID, "2026-08-01", "2026-08-07", false)
	if err != nil {
		t.Fatalf("external timecard: %v", err)
	}
	if len(external) != 1 {
		t.Fatalf("rows = %d, want 1", len(external))
	}
	// Private hours excluded; internal hours counted but genericized.
	if got := external[0].Hours.String(); got != "2.0" {
		t.Errorf("external hours = %s, want 2.0 (private excluded)", got)
	}
	if external[0].Summary != "public work; Project work" {
		t.Errorf("external summary = %q, internal detail must not leak", external[0].Summary)
	}

	internal, err := s.Timecard(ctx, p.ID, "2026-08-01", "2026-08-07", true)
	if err != nil {
		t.Fatalf("internal timecard: %v", err)
	}
	if got := internal[0].Hours.String(); got != "3.0" {
		t.Errorf("internal hours = %s, want 3.0", got)
	}
	if internal[0].Summary != "public work; internal detail; secret" {
		t.Errorf("internal summary = %q, want all real summaries", internal[0].Summary)
	}
}

func TestTimecard_DuplicateSummariesCollapse(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)

	logSession(t, s, p.ID, "2026-08-03", 9, 60, "detail a", store.PrivacyInternal)
	logSession(t, s, p.ID, "2026-08-03", 11, 60, "detail b", store.PrivacyInternal)

	rows, err := s.Timecard(context.Background(), p.ID, "2026-08-01", "2026-08-07", false)
	if err != nil {
		t.Fatalf("Timecard error: %v", err)
	}
	if rows[0].Summary != "Project work" {
		t.Errorf("summary = %q, want the generic line exactly once", rows[0].Summary)
	}
}

func TestTimecard_BadRange(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	if _, err := s.Timecard(ctx, p.ID, "2026-08-07", "2026-08-01", false); !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("inverted range: err = %v, want InvalidArgument", err)
	}
	if _, err := s.Timecard(ctx, p.ID, "08/01/2026", "2026-08-07", false); !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("bad date format: err = %v, want InvalidArgument", err)
	}
	if _, err := s.Timecard(ctx, 9999, "2026-08-01", "2026-08-07", false); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("missing project: err = %v, want NotFound", err)
	}
}

func TestTimecard_EmptyRange(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)

	rows, err := s.Timecard(context.Background(), p.ID, "2026-01-01", "2026-01-31", true)
	if err != nil {
		t.Fatalf("Timecard error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want empty", rows)
	}
}
