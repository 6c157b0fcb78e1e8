// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on them. No business logic
// lives here — only wiring.
package server

import (
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/jarosser06/mosaic/internal/config"
	"github.com/jarosser06/mosaic/internal/notify"
	"github.com/jarosser06/mosaic/internal/query"
	"github.com/jarosser06/mosaic/internal/scheduler"
	"github.com/jarosser06/mosaic/internal/store"
	"github.com/jarosser06/mosaic/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function stops the reminder scheduler and closes
// the database connection; it must be called on shutdown (typically via
// defer). It is always non-nil and safe to call even when New fails.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	// All diagnostics go to stderr: stdout is the MCP transport.
	logger := log.New(os.Stderr, "mosaic: ", log.LstdFlags)

	// --- Create shared dependencies ---

	st, err := store.Open(cfg.DatabaseURL, store.Options{
		Timezone:       cfg.Timezone,
		WeekBoundary:   cfg.WeekBoundary,
		DefaultPrivacy: store.PrivacyLevel(cfg.DefaultPrivacy),
	})
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}

	engine := query.NewEngine(st)

	dispatcher := notify.New(notify.Options{
		BridgeURL:    cfg.BridgeURL,
		Enabled:      cfg.NotificationsEnabled,
		DefaultSound: cfg.DefaultSound,
		Logger:       logger,
	})

	sched := scheduler.New(scheduler.Options{
		Store:    st,
		Notifier: dispatcher,
		Interval: cfg.CheckInterval,
		Logger:   logger,
		Debug:    cfg.LogLevel == "debug",
	})
	if err := sched.Start(); err != nil {
		if cerr := st.Close(); cerr != nil {
			logger.Printf("WARNING: store close: %v", cerr)
		}
		return nil, noop, fmt.Errorf("starting scheduler: %w", err)
	}

	cleanup := func() {
		sched.Stop()
		dispatcher.Close()
		if err := st.Close(); err != nil {
			logger.Printf("WARNING: store close: %v", err)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"mosaic",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tracking tools ---

	logSession := tools.NewLogWorkSessionTool(st)
	s.AddTool(logSession.Definition(), logSession.Handle)

	updateSession := tools.NewUpdateWorkSessionTool(st)
	s.AddTool(updateSession.Definition(), updateSession.Handle)

	logMeeting := tools.NewLogMeetingTool(st)
	s.AddTool(logMeeting.Definition(), logMeeting.Handle)

	updateMeeting := tools.NewUpdateMeetingTool(st)
	s.AddTool(updateMeeting.Definition(), updateMeeting.Handle)

	timecard := tools.NewGenerateTimecardTool(st)
	s.AddTool(timecard.Definition(), timecard.Handle)

	// --- Register directory tools ---

	addClient := tools.NewAddClientTool(st)
	s.AddTool(addClient.Definition(), addClient.Handle)

	updateClient := tools.NewUpdateClientTool(st)
	s.AddTool(updateClient.Definition(), updateClient.Handle)

	addProject := tools.NewAddProjectTool(st)
	s.AddTool(addProject.Definition(), addProject.Handle)

	updateProject := tools.NewUpdateProjectTool(st)
	s.AddTool(updateProject.Definition(), updateProject.Handle)

	addPerson := tools.NewAddPersonTool(st)
	s.AddTool(addPerson.Definition(), addPerson.Handle)

	updatePerson := tools.NewUpdatePersonTool(st)
	s.AddTool(updatePerson.Definition(), updatePerson.Handle)

	addEmployment := tools.NewAddEmploymentHistoryTool(st)
	s.AddTool(addEmployment.Definition(), addEmployment.Handle)

	addEmployer := tools.NewAddEmployerTool(st)
	s.AddTool(addEmployer.Definition(), addEmployer.Handle)

	updateEmployer := tools.NewUpdateEmployerTool(st)
	s.AddTool(updateEmployer.Definition(), updateEmployer.Handle)

	// --- Register note and reminder tools ---

	addNote := tools.NewAddNoteTool(st)
	s.AddTool(addNote.Definition(), addNote.Handle)

	updateNote := tools.NewUpdateNoteTool(st)
	s.AddTool(updateNote.Definition(), updateNote.Handle)

	addReminder := tools.NewAddReminderTool(st)
	s.AddTool(addReminder.Definition(), addReminder.Handle)

	completeReminder := tools.NewCompleteReminderTool(st)
	s.AddTool(completeReminder.Definition(), completeReminder.Handle)

	snoozeReminder := tools.NewSnoozeReminderTool(st)
	s.AddTool(snoozeReminder.Definition(), snoozeReminder.Handle)

	// --- Register query tools ---

	queryTool := tools.NewQueryTool(engine)
	s.AddTool(queryTool.Definition(), queryTool.Handle)

	searchTool := tools.NewSearchTool(engine)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	// --- Register profile and notification tools ---

	getUser := tools.NewGetUserTool(st)
	s.AddTool(getUser.Definition(), getUser.Handle)

	updateUser := tools.NewUpdateUserTool(st)
	s.AddTool(updateUser.Definition(), updateUser.Handle)

	trigger := tools.NewTriggerNotificationTool(dispatcher)
	s.AddTool(trigger.Definition(), trigger.Handle)

	return s, cleanup, nil
}

// noop is the cleanup returned when initialization fails before any
// resource was acquired.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use Mosaic effectively.
func serverInstructions() string {
	return `You have access to Mosaic, a personal work-memory and time-tracking MCP server.

Mosaic records the user's work life in a local database: work sessions,
meetings, clients, projects, people, employers, notes, and reminders.
Use it proactively so the user never has to reconstruct their week from
memory.

## When to log

- After the user describes work they did: call log_work_session with the
  real start and end times. Hours are derived from the times; never ask
  the user to compute them.
- After the user mentions a meeting: call log_meeting. If the meeting is
  tied to a project, a work session is created for it automatically — do
  NOT also call log_work_session for the same meeting.
- When the user mentions a new client, project, or person, add it before
  logging work against it. Projects belong to clients; sessions belong
  to projects.
- When the user asks to be reminded of something, call add_reminder with
  an ISO-8601 instant including a UTC offset. Recurring reminders take a
  recurrence_config; completing one schedules the next occurrence.

## Times and dates

All instants are ISO-8601 with an explicit offset (e.g.
2026-08-24T09:00:00-05:00). Dates are YYYY-MM-DD. Filter values in the
query tool additionally accept the shortcuts today, this_week,
this_month, this_year, and now, resolved in the user's configured
timezone.

## Querying

Use the query tool for anything structured: filters AND-join, fields are
dotted relationship paths (project.client.name, attendees.person.email),
and aggregations support group_by. Use search only for quick phrases
like "meetings this week". When generating output the user will share
with a client, pass access_mode to keep internal and private records
out: public_only shows only public records, internal_and_public excludes
private ones.

## Timecards

generate_timecard produces a per-day hours report for one project over a
date range. Without include_private it omits private sessions and
replaces internal summaries with generic text while still counting their
hours — safe to paste into an invoice.`
}
