package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// CreateReminderParams are the caller-supplied fields for a new
// reminder.
type CreateReminderParams struct {
	ReminderTime      time.Time
	Message           string
	RecurrenceConfig  JSONObject
	RelatedEntityType *EntityType
	RelatedEntityID   *int64
	Tags              Tags
}

// CreateReminder inserts a reminder and returns the stored row.
func (s *Store) CreateReminder(ctx context.Context, p CreateReminderParams) (*Reminder, error) {
	if p.Message == "" {
		return nil, apperr.New(apperr.InvalidArgument, "reminder message is required")
	}
	if err := validateAttachment(p.RelatedEntityType, p.RelatedEntityID); err != nil {
		return nil, err
	}
	if err := validateRecurrence(p.RecurrenceConfig); err != nil {
		return nil, err
	}

	now := s.nowUTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (reminder_time, message, is_completed, recurrence_config,
			related_entity_type, related_entity_id, tags, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		p.ReminderTime.UTC().Format(time.RFC3339), p.Message, p.RecurrenceConfig,
		p.RelatedEntityType, p.RelatedEntityID, p.Tags.Normalize(), now, now)
	if err != nil {
		return nil, translateErr("create reminder", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, translateErr("create reminder", err)
	}
	return s.GetReminder(ctx, id)
}

// GetReminder fetches one reminder by id.
func (s *Store) GetReminder(ctx context.Context, id int64) (*Reminder, error) {
	var r Reminder
	err := s.db.GetContext(ctx, &r, `SELECT * FROM reminders WHERE id = ?`, id)
	if err != nil {
		return nil, translateErr("get reminder", err)
	}
	return &r, nil
}

// CompleteReminder marks a reminder done. For a recurring reminder the
// next occurrence is inserted in the same transaction, carrying over
// the message, recurrence, related entity, and tags. Completing an
// already-completed reminder is a conflict.
func (s *Store) CompleteReminder(ctx context.Context, id int64) (*Reminder, *Reminder, error) {
	r, err := s.GetReminder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if r.IsCompleted {
		return nil, nil, apperr.Newf(apperr.Conflict, "reminder %d is already completed", id)
	}

	var nextID int64
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := s.nowUTC()
		if _, err := tx.ExecContext(ctx, `
			UPDATE reminders SET is_completed = 1, updated_at = ? WHERE id = ?`, now, id); err != nil {
			return translateErr("complete reminder", err)
		}

		if r.RecurrenceConfig == nil {
			return nil
		}
		freq, _ := r.RecurrenceConfig["frequency"].(string)
		cur, err := parseStoredTime(r.ReminderTime)
		if err != nil {
			return err
		}
		next, err := timeutil.NextOccurrence(cur, timeutil.Frequency(freq), s.opts.Timezone)
		if err != nil {
			return apperr.Wrap(apperr.Internal, "compute next occurrence", err)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reminders (reminder_time, message, is_completed, recurrence_config,
				related_entity_type, related_entity_id, tags, created_at, updated_at)
			VALUES (?, ?, 0, ?, ?, ?, ?, ?, ?)`,
			next.Format(time.RFC3339), r.Message, r.RecurrenceConfig,
			r.RelatedEntityType, r.RelatedEntityID, r.Tags, now, now)
		if err != nil {
			return translateErr("insert next occurrence", err)
		}
		nextID, err = res.LastInsertId()
		if err != nil {
			return translateErr("insert next occurrence", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	done, err := s.GetReminder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var next *Reminder
	if nextID != 0 {
		if next, err = s.GetReminder(ctx, nextID); err != nil {
			return nil, nil, err
		}
	}
	return done, next, nil
}

// SnoozeReminder pushes an incomplete reminder's next notification to
// the given instant. The reminder time itself is untouched.
func (s *Store) SnoozeReminder(ctx context.Context, id int64, until time.Time) (*Reminder, error) {
	r, err := s.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.IsCompleted {
		return nil, apperr.Newf(apperr.Conflict, "reminder %d is already completed", id)
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE reminders SET snoozed_until = ?, updated_at = ? WHERE id = ?`,
		until.UTC().Format(time.RFC3339), s.nowUTC(), id)
	if err != nil {
		return nil, translateErr("snooze reminder", err)
	}
	return s.GetReminder(ctx, id)
}

// DueReminders returns reminders whose notification is owed at the
// given instant: incomplete, past due, not snoozed into the future, and
// not already notified for the current due time.
func (s *Store) DueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	ts := now.UTC().Format(time.RFC3339)
	var out []Reminder
	err := s.db.SelectContext(ctx, &out, `
		SELECT * FROM reminders
		WHERE is_completed = 0
		  AND reminder_time <= ?
		  AND (snoozed_until IS NULL OR snoozed_until <= ?)
		  AND (last_notified_at IS NULL
		       OR last_notified_at < reminder_time
		       OR (snoozed_until IS NOT NULL AND last_notified_at < snoozed_until))
		ORDER BY reminder_time`, ts, ts)
	if err != nil {
		return nil, translateErr("scan due reminders", err)
	}
	return out, nil
}

// MarkNotified records that a notification went out for the reminder.
func (s *Store) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET last_notified_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), s.nowUTC(), id)
	return translateErr("mark notified", err)
}

// validateRecurrence checks a recurrence config object. A nil config is
// a one-shot reminder.
func validateRecurrence(cfg JSONObject) error {
	if cfg == nil {
		return nil
	}
	freq, ok := cfg["frequency"].(string)
	if !ok {
		return apperr.New(apperr.InvalidArgument, "recurrence_config requires a frequency")
	}
	switch timeutil.Frequency(freq) {
	case timeutil.FreqDaily:
	case timeutil.FreqWeekly:
		if dow, found := cfg["day_of_week"]; found {
			n, ok := asInt(dow)
			if !ok || n < 0 || n > 6 {
				return apperr.Newf(apperr.InvalidArgument, "day_of_week %v: must be 0-6", dow)
			}
		}
	case timeutil.FreqMonthly:
		if dom, found := cfg["day_of_month"]; found {
			n, ok := asInt(dom)
			if !ok || n < 1 || n > 31 {
				return apperr.Newf(apperr.InvalidArgument, "day_of_month %v: must be 1-31", dom)
			}
		}
	default:
		return apperr.Newf(apperr.InvalidArgument, "recurrence frequency %q: must be daily, weekly, or monthly", freq)
	}
	return nil
}

// asInt extracts an integral value from a decoded JSON number.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
