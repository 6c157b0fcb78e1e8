package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// newTestStore creates a Store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "mosaic.db"), store.Options{
		Timezone:       time.UTC,
		WeekBoundary:   timeutil.WeekMonFri,
		DefaultPrivacy: store.PrivacyPrivate,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixtureProject creates a client and a project under it.
func fixtureProject(t *testing.T, s *store.Store) *store.Project {
	t.Helper()
	ctx := context.Background()
	c, err := s.CreateClient(ctx, store.CreateClientParams{Name: "Acme", Type: store.ClientCompany})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	p, err := s.CreateProject(ctx, store.CreateProjectParams{Name: "Website", ClientID: c.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func strPtr(s string) *string { return &s }

// ─── Open / migration ───────────────────────────────────────────────────────

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.db")
	opts := store.Options{}

	s1, err := store.Open(path, opts)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	e, err := s1.CreateEmployer(context.Background(), store.CreateEmployerParams{Name: "Initech"})
	if err != nil {
		t.Fatalf("create employer: %v", err)
	}
	s1.Close()

	s2, err := store.Open(path, opts)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetEmployer(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("employer not found after reopen: %v", err)
	}
	if got.Name != "Initech" {
		t.Errorf("Name = %q, want %q", got.Name, "Initech")
	}
}

// ─── Clients / projects ─────────────────────────────────────────────────────

func TestCreateClient_DefaultsToActive(t *testing.T) {
	s := newTestStore(t)
	c, err := s.CreateClient(context.Background(), store.CreateClientParams{
		Name: "Acme", Type: store.ClientCompany,
	})
	if err != nil {
		t.Fatalf("CreateClient error: %v", err)
	}
	if c.Status != store.ClientActive {
		t.Errorf("Status = %q, want active", c.Status)
	}
	if len(c.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", c.Tags)
	}
}

func TestCreateClient_RejectsBadType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateClient(context.Background(), store.CreateClientParams{
		Name: "Acme", Type: "gov",
	})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
}

func TestCreateProject_MissingClientIsInvalid(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProject(context.Background(), store.CreateProjectParams{
		Name: "Ghost", ClientID: 9999,
	})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument (missing FK)", err)
	}
}

func TestProject_CompletedRequiresEndDate(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	completed := store.ProjectCompleted
	_, err := s.UpdateProject(ctx, p.ID, store.UpdateProjectParams{Status: &completed})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("completing without end date: err = %v, want InvalidArgument", err)
	}

	got, err := s.UpdateProject(ctx, p.ID, store.UpdateProjectParams{
		Status: &completed, EndDate: strPtr("2026-08-01"),
	})
	if err != nil {
		t.Fatalf("completing with end date: %v", err)
	}
	if got.Status != store.ProjectCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
}

func TestUpdateClient_PartialPatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c, err := s.CreateClient(ctx, store.CreateClientParams{
		Name: "Acme", Type: store.ClientCompany, Notes: strPtr("first contact"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	past := store.ClientPast
	got, err := s.UpdateClient(ctx, c.ID, store.UpdateClientParams{Status: &past})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != store.ClientPast {
		t.Errorf("Status = %q, want past", got.Status)
	}
	if got.Notes == nil || *got.Notes != "first contact" {
		t.Errorf("Notes = %v, patch should not clear untouched fields", got.Notes)
	}
}

func TestGetClient_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetClient(context.Background(), 42)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

// ─── Tags ───────────────────────────────────────────────────────────────────

func TestTags_NormalizedOnWrite(t *testing.T) {
	s := newTestStore(t)
	e, err := s.CreateEmployer(context.Background(), store.CreateEmployerParams{
		Name: "Initech",
		Tags: store.Tags{"b", "a", "b", ""},
	})
	if err != nil {
		t.Fatalf("CreateEmployer error: %v", err)
	}
	if len(e.Tags) != 2 || e.Tags[0] != "a" || e.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", e.Tags)
	}
}

// ─── People / employment ────────────────────────────────────────────────────

func TestAddEmployment_ClosesPreviousCurrentRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p, err := s.CreatePerson(ctx, store.CreatePersonParams{FullName: "Dana Scully"})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	c, err := s.CreateClient(ctx, store.CreateClientParams{Name: "Acme", Type: store.ClientCompany})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	if _, err := s.AddEmployment(ctx, store.AddEmploymentParams{
		PersonID: p.ID, ClientID: c.ID, Role: "Engineer", StartDate: "2024-01-01",
	}); err != nil {
		t.Fatalf("first employment: %v", err)
	}
	if _, err := s.AddEmployment(ctx, store.AddEmploymentParams{
		PersonID: p.ID, ClientID: c.ID, Role: "Staff Engineer", StartDate: "2025-06-01",
	}); err != nil {
		t.Fatalf("second employment: %v", err)
	}

	spans, err := s.EmploymentFor(ctx, p.ID)
	if err != nil {
		t.Fatalf("list employment: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("len = %d, want 2", len(spans))
	}
	current := 0
	for _, span := range spans {
		if span.EndDate == nil {
			current++
		} else if *span.EndDate != "2025-06-01" {
			t.Errorf("closed span end = %q, want new start date", *span.EndDate)
		}
	}
	if current != 1 {
		t.Errorf("current rows = %d, want exactly 1", current)
	}
}

// ─── Notes ──────────────────────────────────────────────────────────────────

func TestCreateNote_AttachmentMustBePaired(t *testing.T) {
	s := newTestStore(t)
	et := store.EntityProject
	_, err := s.CreateNote(context.Background(), store.CreateNoteParams{
		Text: "orphaned", EntityType: &et,
	})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
}

func TestCreateNote_DefaultPrivacyApplied(t *testing.T) {
	s := newTestStore(t)
	n, err := s.CreateNote(context.Background(), store.CreateNoteParams{Text: "plain"})
	if err != nil {
		t.Fatalf("CreateNote error: %v", err)
	}
	if n.PrivacyLevel != store.PrivacyPrivate {
		t.Errorf("PrivacyLevel = %q, want configured default", n.PrivacyLevel)
	}
}

// ─── User singleton ─────────────────────────────────────────────────────────

func TestGetUser_CreatesSingletonFromDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1, err := s.GetUser(ctx)
	if err != nil {
		t.Fatalf("GetUser error: %v", err)
	}
	if u1.Timezone != "UTC" || u1.DefaultWeekBoundary != "mon-fri" {
		t.Errorf("defaults = %q/%q, want UTC/mon-fri", u1.Timezone, u1.DefaultWeekBoundary)
	}

	u2, err := s.GetUser(ctx)
	if err != nil {
		t.Fatalf("second GetUser error: %v", err)
	}
	if u2.ID != u1.ID {
		t.Errorf("second GetUser created a new row: %d != %d", u2.ID, u1.ID)
	}
}

func TestUpdateUser_RejectsUnknownTimezone(t *testing.T) {
	s := newTestStore(t)
	tz := "Mars/Olympus"
	_, err := s.UpdateUser(context.Background(), store.UpdateUserParams{Timezone: &tz})
	if !apperr.IsKind(err, apperr.InvalidArgument) {
		t.Fatalf("err = %v, want InvalidArgument", err)
	}
}
