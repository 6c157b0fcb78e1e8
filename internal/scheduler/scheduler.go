// Package scheduler runs the periodic due-reminder scan and hands hits
// to the notification dispatcher.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jarosser06/mosaic/internal/notify"
	"github.com/jarosser06/mosaic/internal/store"
)

// notifier is the slice of the dispatcher the scheduler needs.
type notifier interface {
	Send(ctx context.Context, n notify.Notification) (notify.Result, error)
}

// Scheduler periodically scans for due reminders and dispatches them.
type Scheduler struct {
	store    *store.Store
	notifier notifier
	interval time.Duration
	logger   *log.Logger
	debug    bool

	cron *cron.Cron
	now  func() time.Time
}

// Options configure a Scheduler.
type Options struct {
	Store    *store.Store
	Notifier notifier
	Interval time.Duration
	Logger   *log.Logger
	Debug    bool
}

// New builds a Scheduler; Start arms it.
func New(opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		store:    opts.Store,
		notifier: opts.Notifier,
		interval: interval,
		logger:   logger,
		debug:    opts.Debug,
		now:      time.Now,
	}
}

// Start begins the check-due loop. The first scan happens after one
// interval, not immediately.
func (s *Scheduler) Start() error {
	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.checkDue); err != nil {
		return fmt.Errorf("scheduler: schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.logger.Printf("scheduler: checking reminders every %s", s.interval)
	return nil
}

// Stop halts the loop and waits for an in-flight scan to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Printf("scheduler: stopped")
}

// CheckNow runs one synchronous scan outside the cron cadence.
func (s *Scheduler) CheckNow() { s.checkDue() }

// checkDue is one tick: scan, dispatch, mark. Failures are logged and
// never propagate; the next tick retries whatever is still due.
func (s *Scheduler) checkDue() {
	ctx := context.Background()
	now := s.now()

	due, err := s.store.DueReminders(ctx, now)
	if err != nil {
		s.logger.Printf("scheduler: due scan failed: %v", err)
		return
	}
	if s.debug {
		s.logger.Printf("scheduler: tick at %s, %d due", now.UTC().Format(time.RFC3339), len(due))
	}

	for _, r := range due {
		s.dispatch(ctx, r, now)
	}
}

// dispatch sends one reminder's notification and records the dispatch
// instant. A delivery failure still marks the reminder so a flapping
// bridge doesn't renotify every tick; the user advances the reminder's
// state to re-arm it.
func (s *Scheduler) dispatch(ctx context.Context, r store.Reminder, now time.Time) {
	res, err := s.notifier.Send(ctx, notify.Notification{
		Title:   "Reminder",
		Message: r.Message,
		Metadata: map[string]any{
			"reminder_id":   r.ID,
			"reminder_time": r.ReminderTime,
		},
	})
	if err != nil {
		s.logger.Printf("scheduler: reminder %d notification failed after %d attempts: %v", r.ID, res.Attempts, err)
	}

	if err := s.store.MarkNotified(ctx, r.ID, now); err != nil {
		s.logger.Printf("scheduler: reminder %d mark-notified failed: %v", r.ID, err)
	}
}
