package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
)

func TestCreateReminder_RecurrenceValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	when := time.Now().UTC().Add(time.Hour)

	cases := []struct {
		name string
		cfg  store.JSONObject
		ok   bool
	}{
		{"one-shot", nil, true},
		{"daily", store.JSONObject{"frequency": "daily"}, true},
		{"weekly with day", store.JSONObject{"frequency": "weekly", "day_of_week": float64(3)}, true},
		{"monthly with day", store.JSONObject{"frequency": "monthly", "day_of_month": float64(15)}, true},
		{"unknown frequency", store.JSONObject{"frequency": "hourly"}, false},
		{"missing frequency", store.JSONObject{"day_of_week": float64(1)}, false},
		{"day_of_week out of range", store.JSONObject{"frequency": "weekly", "day_of_week": float64(7)}, false},
		{"day_of_month out of range", store.JSONObject{"frequency": "monthly", "day_of_month": float64(0)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateReminder(ctx, store.CreateReminderParams{
				ReminderTime:     when,
				Message:          "check in",
				RecurrenceConfig: tc.cfg,
			})
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !apperr.IsKind(err, apperr.InvalidArgument) {
				t.Fatalf("err = %v, want InvalidArgument", err)
			}
		})
	}
}

func TestCompleteReminder_OneShot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime: time.Now().UTC(),
		Message:      "send invoice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done, next, err := s.CompleteReminder(ctx, r.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.IsCompleted {
		t.Error("reminder should be completed")
	}
	if next != nil {
		t.Errorf("one-shot reminder spawned a successor: %+v", next)
	}

	if _, _, err := s.CompleteReminder(ctx, r.ID); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("double completion: err = %v, want Conflict", err)
	}
}

func TestCompleteReminder_RecurringSpawnsNext(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	when := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	r, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime:     when,
		Message:          "weekly report",
		RecurrenceConfig: store.JSONObject{"frequency": "weekly"},
		Tags:             store.Tags{"work"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, next, err := s.CompleteReminder(ctx, r.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if next == nil {
		t.Fatal("recurring reminder should spawn a successor")
	}
	if next.ReminderTime != when.AddDate(0, 0, 7).Format(time.RFC3339) {
		t.Errorf("next time = %q, want one week later", next.ReminderTime)
	}
	if next.Message != "weekly report" || next.IsCompleted {
		t.Errorf("successor should carry the message and be incomplete: %+v", next)
	}
	if len(next.Tags) != 1 || next.Tags[0] != "work" {
		t.Errorf("successor tags = %v, want [work]", next.Tags)
	}
}

func TestSnoozeReminder_CompletedIsConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime: time.Now().UTC(),
		Message:      "done already",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := s.CompleteReminder(ctx, r.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := s.SnoozeReminder(ctx, r.ID, time.Now().Add(time.Hour)); !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("err = %v, want Conflict", err)
	}
}

func TestDueReminders_AtMostOncePerDueTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	when := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	r, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime: when,
		Message:      "standup",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := when.Add(time.Minute)
	due, err := s.DueReminders(ctx, now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(due) != 1 || due[0].ID != r.ID {
		t.Fatalf("due = %v, want the reminder", due)
	}

	if err := s.MarkNotified(ctx, r.ID, now); err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	due, err = s.DueReminders(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due = %v, want empty after notification", due)
	}
}

func TestDueReminders_SnoozeSuppressesThenRefires(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	when := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	r, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime: when,
		Message:      "follow up",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Notified once, then snoozed for an hour.
	if err := s.MarkNotified(ctx, r.ID, when.Add(time.Minute)); err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	until := when.Add(time.Hour)
	if _, err := s.SnoozeReminder(ctx, r.ID, until); err != nil {
		t.Fatalf("snooze: %v", err)
	}

	// While snoozed: silent.
	due, err := s.DueReminders(ctx, when.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("scan during snooze: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due during snooze = %v, want empty", due)
	}

	// After the snooze expires it fires again even though it was
	// already notified for the original due time.
	due, err = s.DueReminders(ctx, until.Add(time.Minute))
	if err != nil {
		t.Fatalf("scan after snooze: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("due after snooze = %v, want the reminder again", due)
	}
}

func TestDueReminders_FutureIsSilent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	when := time.Now().UTC().Add(24 * time.Hour)
	if _, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime: when,
		Message:      "tomorrow",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	due, err := s.DueReminders(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("due = %v, want empty for a future reminder", due)
	}
}
