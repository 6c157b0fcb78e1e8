package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/notify"
	"github.com/jarosser06/mosaic/internal/query"
	"github.com/jarosser06/mosaic/internal/store"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// ─── Test helpers ───────────────────────────────────────────────────────────

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

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// mustSucceed fails the test when the tool reported an error.
func mustSucceed(t *testing.T, r *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if r == nil {
		t.Fatal("nil result")
	}
	if r.IsError {
		t.Fatalf("tool reported error: %s", resultText(r))
	}
}

// mustFail fails the test unless the tool reported an error whose text
// contains want.
func mustFail(t *testing.T, r *mcp.CallToolResult, err error, want string) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if r == nil || !r.IsError {
		t.Fatalf("expected tool error containing %q, got success: %s", want, resultText(r))
	}
	if text := resultText(r); !strings.Contains(text, want) {
		t.Errorf("error text = %q, want it to contain %q", text, want)
	}
}

// ─── LogWorkSessionTool ─────────────────────────────────────────────────────

func TestLogWorkSessionTool_Definition(t *testing.T) {
	tool := NewLogWorkSessionTool(newTestStore(t))
	def := tool.Definition()

	if def.Name != "log_work_session" {
		t.Errorf("tool name = %q, want %q", def.Name, "log_work_session")
	}
	for _, p := range []string{"project_id", "start_time", "end_time", "summary", "privacy_level", "tags"} {
		if _, ok := def.InputSchema.Properties[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
	required := strings.Join(def.InputSchema.Required, ",")
	for _, p := range []string{"project_id", "start_time", "end_time"} {
		if !strings.Contains(required, p) {
			t.Errorf("%q should be required", p)
		}
	}
}

func TestLogWorkSessionTool_LogsSession(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	tool := NewLogWorkSessionTool(s)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"project_id": float64(p.ID),
		"start_time": "2026-08-10T09:00:00-05:00",
		"end_time":   "2026-08-10T10:45:00-05:00",
		"summary":    "Landing page",
		"tags":       []any{"frontend", "frontend", ""},
	}))
	mustSucceed(t, result, err)

	var ws store.WorkSession
	if err := json.Unmarshal([]byte(resultText(result)), &ws); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got := ws.DurationHours.String(); got != "2.0" {
		t.Errorf("duration = %s, want 2.0 (105 minutes rounds up)", got)
	}
	if ws.Date != "2026-08-10" {
		t.Errorf("date = %s, want 2026-08-10", ws.Date)
	}
	if len(ws.Tags) != 1 || ws.Tags[0] != "frontend" {
		t.Errorf("tags = %v, want duplicates and empties dropped: [frontend]", ws.Tags)
	}
	if ws.PrivacyLevel != store.PrivacyPrivate {
		t.Errorf("privacy = %s, want the configured default private", ws.PrivacyLevel)
	}
}

func TestLogWorkSessionTool_RejectsNaiveDatetime(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	tool := NewLogWorkSessionTool(s)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"project_id": float64(p.ID),
		"start_time": "2026-08-10T09:00:00",
		"end_time":   "2026-08-10T10:00:00-05:00",
	}))
	mustFail(t, result, err, "ISO-8601")
}

func TestLogWorkSessionTool_RejectsUnknownArgument(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	tool := NewLogWorkSessionTool(s)

	// Misspelled argument names fail instead of being dropped.
	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"project_id": float64(p.ID),
		"start_time": "2026-08-10T09:00:00-05:00",
		"end_time":   "2026-08-10T10:00:00-05:00",
		"sumary":     "typo",
	}))
	mustFail(t, result, err, "invalid_argument")
}

func TestLogWorkSessionTool_MissingProject(t *testing.T) {
	s := newTestStore(t)
	tool := NewLogWorkSessionTool(s)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"project_id": float64(999),
		"start_time": "2026-08-10T09:00:00-05:00",
		"end_time":   "2026-08-10T10:00:00-05:00",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for nonexistent project")
	}
}

// ─── LogMeetingTool ─────────────────────────────────────────────────────────

func TestLogMeetingTool_ProjectMeetingLogsSession(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	tool := NewLogMeetingTool(s)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"title":            "Sprint planning",
		"start_time":       "2026-08-10T14:00:00-05:00",
		"duration_minutes": float64(50),
		"project_id":       float64(p.ID),
	}))
	mustSucceed(t, result, err)

	var out struct {
		Meeting     *store.Meeting     `json:"meeting"`
		WorkSession *store.WorkSession `json:"work_session"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Meeting == nil || out.Meeting.Title != "Sprint planning" {
		t.Fatalf("meeting = %+v", out.Meeting)
	}
	if out.WorkSession == nil {
		t.Fatal("expected a work session alongside a project meeting")
	}
	if got := out.WorkSession.DurationHours.String(); got != "1.0" {
		t.Errorf("session duration = %s, want 1.0 (50 minutes rounds up)", got)
	}
}

func TestLogMeetingTool_StandaloneMeetingHasNoSession(t *testing.T) {
	s := newTestStore(t)
	tool := NewLogMeetingTool(s)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"title":            "Coffee chat",
		"start_time":       "2026-08-10T15:00:00-05:00",
		"duration_minutes": float64(30),
	}))
	mustSucceed(t, result, err)

	var out map[string]json.RawMessage
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if _, ok := out["work_session"]; ok {
		t.Error("standalone meeting should not produce a work session")
	}
}

// ─── Reminder tools ─────────────────────────────────────────────────────────

func TestCompleteReminderTool_RecurringSchedulesNext(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, err := s.CreateReminder(ctx, store.CreateReminderParams{
		ReminderTime:     time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		Message:          "Standup",
		RecurrenceConfig: store.JSONObject{"frequency": "daily"},
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	tool := NewCompleteReminderTool(s)
	result, err := tool.Handle(ctx, makeReq(map[string]any{"id": float64(r.ID)}))
	mustSucceed(t, result, err)

	var out struct {
		Completed *store.Reminder `json:"completed"`
		Next      *store.Reminder `json:"next"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Completed == nil || !out.Completed.IsCompleted {
		t.Fatalf("completed = %+v", out.Completed)
	}
	if out.Next == nil {
		t.Fatal("daily reminder should schedule a next occurrence")
	}

	// Completing again is a conflict.
	result, err = tool.Handle(ctx, makeReq(map[string]any{"id": float64(r.ID)}))
	mustFail(t, result, err, "conflict")
}

// ─── QueryTool / SearchTool ─────────────────────────────────────────────────

func TestQueryTool_FiltersByRelationshipPath(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	summary := "Deep work"
	if _, err := s.CreateWorkSession(ctx, store.CreateWorkSessionParams{
		ProjectID: p.ID,
		StartTime: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 8, 10, 11, 0, 0, 0, time.UTC),
		Summary:   &summary,
	}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	tool := NewQueryTool(query.NewEngine(s))
	result, err := tool.Handle(ctx, makeReq(map[string]any{
		"entity_type": "work_session",
		"filters": []any{
			map[string]any{"field": "project.client.name", "operator": "eq", "value": "Acme"},
		},
	}))
	mustSucceed(t, result, err)

	var out struct {
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.TotalCount != 1 {
		t.Errorf("total_count = %d, want 1", out.TotalCount)
	}
}

func TestQueryTool_UnknownEntity(t *testing.T) {
	tool := NewQueryTool(query.NewEngine(newTestStore(t)))
	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"entity_type": "invoice",
	}))
	mustFail(t, result, err, "invalid_argument")
}

func TestSearchTool_RecognizesEntityAndRange(t *testing.T) {
	s := newTestStore(t)
	tool := NewSearchTool(query.NewEngine(s))

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"text": "meetings this week",
	}))
	mustSucceed(t, result, err)

	var out struct {
		EntityType string `json:"entity_type"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.EntityType != "meeting" {
		t.Errorf("entity_type = %q, want meeting", out.EntityType)
	}
}

func TestSearchTool_UnrecognizedPhrase(t *testing.T) {
	tool := NewSearchTool(query.NewEngine(newTestStore(t)))
	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"text": "what happened lately",
	}))
	mustFail(t, result, err, "invalid_argument")
}

// ─── GenerateTimecardTool ───────────────────────────────────────────────────

func TestGenerateTimecardTool_SumsHours(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	ctx := context.Background()

	for _, day := range []int{10, 11} {
		if _, err := s.CreateWorkSession(ctx, store.CreateWorkSessionParams{
			ProjectID:    p.ID,
			StartTime:    time.Date(2026, 8, day, 9, 0, 0, 0, time.UTC),
			EndTime:      time.Date(2026, 8, day, 10, 30, 0, 0, time.UTC),
			PrivacyLevel: store.PrivacyPublic,
		}); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	tool := NewGenerateTimecardTool(s)
	result, err := tool.Handle(ctx, makeReq(map[string]any{
		"project_id": float64(p.ID),
		"start_date": "2026-08-01",
		"end_date":   "2026-08-31",
	}))
	mustSucceed(t, result, err)

	var out struct {
		Rows  []store.TimecardRow `json:"rows"`
		Total store.Hours         `json:"total_hours"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(out.Rows))
	}
	if got := out.Total.String(); got != "3.0" {
		t.Errorf("total_hours = %s, want 3.0", got)
	}
}

func TestGenerateTimecardTool_BadRange(t *testing.T) {
	s := newTestStore(t)
	p := fixtureProject(t, s)
	tool := NewGenerateTimecardTool(s)

	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"project_id": float64(p.ID),
		"start_date": "2026-08-31",
		"end_date":   "2026-08-01",
	}))
	mustFail(t, result, err, "invalid_argument")
}

// ─── TriggerNotificationTool ────────────────────────────────────────────────

// newTestDispatcher points a dispatcher at a bridge handler with
// millisecond backoff so retry tests don't sleep.
func newTestDispatcher(t *testing.T, handler http.HandlerFunc) *notify.Dispatcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return notify.New(notify.Options{
		BridgeURL:      srv.URL,
		Enabled:        true,
		InitialBackoff: time.Millisecond,
	})
}

func TestTriggerNotificationTool_ForwardsMetadata(t *testing.T) {
	var got notify.Notification
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode bridge payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	tool := NewTriggerNotificationTool(d)
	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"title":    "Heads up",
		"message":  "Standup in 5",
		"metadata": map[string]any{"reminder_id": float64(7)},
	}))
	mustSucceed(t, result, err)

	var out notify.Result
	if err := json.Unmarshal([]byte(resultText(result)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !out.Delivered || out.Attempts != 1 {
		t.Errorf("result = %+v, want delivered on first attempt", out)
	}
	if got.Metadata["reminder_id"] != float64(7) {
		t.Errorf("bridge metadata = %v, want reminder_id 7", got.Metadata)
	}
}

func TestTriggerNotificationTool_PersistentFailureIsError(t *testing.T) {
	d := newTestDispatcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tool := NewTriggerNotificationTool(d)
	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"title":   "Heads up",
		"message": "Standup in 5",
	}))
	mustFail(t, result, err, "delivery_failed")
	if text := resultText(result); !strings.Contains(text, "3 attempts") {
		t.Errorf("error text = %q, want the attempt count", text)
	}
}

// ─── User tools ─────────────────────────────────────────────────────────────

func TestUpdateUserTool_RejectsBadTimezone(t *testing.T) {
	tool := NewUpdateUserTool(newTestStore(t))
	result, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"timezone": "Mars/Olympus_Mons",
	}))
	mustFail(t, result, err, "invalid_argument")
}

func TestGetUserTool_ReturnsDefaults(t *testing.T) {
	tool := NewGetUserTool(newTestStore(t))
	result, err := tool.Handle(context.Background(), makeReq(nil))
	mustSucceed(t, result, err)

	var u store.User
	if err := json.Unmarshal([]byte(resultText(result)), &u); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if u.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", u.Timezone)
	}
	if u.DefaultWeekBoundary != string(timeutil.WeekMonFri) {
		t.Errorf("week boundary = %q, want %s", u.DefaultWeekBoundary, timeutil.WeekMonFri)
	}
}
