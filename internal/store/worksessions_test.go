package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
)

func TestCreateWorkSession_RoundsAndDatesFromStart(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	start := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	ws, err := s.CreateWorkSession(ctx, store.CreateWorkSessionParams{
		ProjectID: p.ID,
		StartTime: start,
		EndTime:   start.Add(105 * time.Minute),
		Summary:   strPtr("API refactor"),
	})
	if err != nil {
		t.Fatalf("CreateWorkSession error: %v", err)
	}
	if got := ws.DurationHours.String(); got != "2.0" {
		t.Errorf("DurationHours = %s, want 2.0 (105 minutes rounds up)", got)
	}
	if ws.Date != "2026-03-09" {
		t.Errorf("Date = %q, want 2026-03-09", ws.Date)
	}
	if ws.PrivacyLevel != store.PrivacyPrivate {
		t.Errorf("PrivacyLevel = %q, want configured default", ws.PrivacyLevel)
	}
}

func TestCreateWorkSession_EndBeforeStart(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)

	start := time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)
	_, err := s.CreateWorkSession(context.Background(), store.CreateWorkSessionParams{
		ProjectID: p.ID,
		StartTime: start,
		EndTime:   start.Add(-time.Minute),
	})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
}

func TestCreateWorkSession_MissingProject(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().UTC()
	_, err := s.CreateWorkSession(context.Background(), store.CreateWorkSessionParams{
		ProjectID: 9999,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument (missing FK)", err)
	}
}

func TestUpdateWorkSession_NewEndRecomputesDuration(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	ws, err := s.CreateWorkSession(ctx, store.CreateWorkSessionParams{
		ProjectID: p.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newEnd := start.Add(135 * time.Minute)
	got, err := s.UpdateWorkSession(ctx, ws.ID, store.UpdateWorkSessionParams{EndTime: &newEnd})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if d := got.DurationHours.String(); d != "2.5" {
		t.Errorf("DurationHours = %s, want 2.5 after extending to 135 minutes", d)
	}
}

func TestUpdateWorkSession_NewStartMovesDate(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	ws, err := s.CreateWorkSession(ctx, store.CreateWorkSessionParams{
		ProjectID: p.ID,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newStart := start.AddDate(0, 0, 1)
	newEnd := newStart.Add(2 * time.Hour)
	got, err := s.UpdateWorkSession(ctx, ws.ID, store.UpdateWorkSessionParams{
		StartTime: &newStart, EndTime: &newEnd,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Date != "2026-03-10" {
		t.Errorf("Date = %q, want 2026-03-10 after moving the start", got.Date)
	}
}

func TestUpdateWorkSession_InvertedIntervalRejected(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	start := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	ws, err := s.CreateWorkSession(ctx, store.CreateWorkSessionParams{
		ProjectID: p.ID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	badEnd := start.Add(-time.Hour)
	if _, err := s.UpdateWorkSession(ctx, ws.ID, store.UpdateWorkSessionParams{EndTime: &badEnd}); !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}

	// The failed update must leave the row untouched.
	got, err := s.GetWorkSession(ctx, ws.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d := got.DurationHours.String(); d != "1.0" {
		t.Errorf("DurationHours = %s, want 1.0 unchanged", d)
	}
}
