package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ─── Enumerations ────────────────────────────────────────────────────────────

// PrivacyLevel controls inclusion of a record in external projections.
type PrivacyLevel string

const (
	PrivacyPublic   PrivacyLevel = "public"
	PrivacyInternal PrivacyLevel = "internal"
	PrivacyPrivate  PrivacyLevel = "private"
)

// Valid reports whether p is a known privacy level.
func (p PrivacyLevel) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyInternal, PrivacyPrivate:
		return true
	}
	return false
}

// ClientType distinguishes organizations from individual clients.
type ClientType string

const (
	ClientCompany    ClientType = "company"
	ClientIndividual ClientType = "individual"
)

func (c ClientType) Valid() bool {
	return c == ClientCompany || c == ClientIndividual
}

// ClientStatus tracks whether a client relationship is ongoing.
type ClientStatus string

const (
	ClientActive ClientStatus = "active"
	ClientPast   ClientStatus = "past"
)

func (c ClientStatus) Valid() bool {
	return c == ClientActive || c == ClientPast
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

func (p ProjectStatus) Valid() bool {
	switch p {
	case ProjectActive, ProjectPaused, ProjectCompleted:
		return true
	}
	return false
}

// EntityType enumerates the entities notes and reminders may attach to.
type EntityType string

const (
	EntityPerson      EntityType = "person"
	EntityClient      EntityType = "client"
	EntityProject     EntityType = "project"
	EntityEmployer    EntityType = "employer"
	EntityWorkSession EntityType = "work_session"
	EntityMeeting     EntityType = "meeting"
	EntityNote        EntityType = "note"
	EntityReminder    EntityType = "reminder"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityPerson, EntityClient, EntityProject, EntityEmployer,
		EntityWorkSession, EntityMeeting, EntityNote, EntityReminder:
		return true
	}
	return false
}

// ─── Column types ────────────────────────────────────────────────────────────

// Tags is an unordered, duplicate-free string set stored as a JSON
// array. The zero value round-trips as [].
type Tags []string

// Normalize returns a sorted copy with duplicates and empty strings
// removed.
func (t Tags) Normalize() Tags {
	seen := make(map[string]struct{}, len(t))
	out := make(Tags, 0, len(t))
	for _, tag := range t {
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Value implements driver.Valuer, serializing to a JSON array.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON array text.
func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(t))
	case []byte:
		return json.Unmarshal(v, (*[]string)(t))
	}
	return fmt.Errorf("tags: cannot scan %T", src)
}

// MarshalJSON renders nil tag sets as [] rather than null.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// JSONObject is a nullable free-form JSON object column
// (Person.additional_info, Reminder.recurrence_config). A nil map is
// stored and serialized as NULL.
type JSONObject map[string]any

// Value implements driver.Valuer.
func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]any(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (j *JSONObject) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), (*map[string]any)(j))
	case []byte:
		return json.Unmarshal(v, (*map[string]any)(j))
	}
	return fmt.Errorf("json object: cannot scan %T", src)
}

// Hours is a fixed-point duration in hours, stored and serialized as a
// string with exactly one decimal place.
type Hours struct {
	decimal.Decimal
}

// HoursOf wraps a decimal as an Hours value.
func HoursOf(d decimal.Decimal) Hours { return Hours{Decimal: d} }

// String renders with the canonical single decimal place.
func (h Hours) String() string { return h.StringFixed(1) }

// Value implements driver.Valuer, storing the 1dp text form.
func (h Hours) Value() (driver.Value, error) { return h.StringFixed(1), nil }

// Scan implements sql.Scanner.
func (h *Hours) Scan(src any) error { return h.Decimal.Scan(src) }

// MarshalJSON serializes as a quoted 1dp string ("2.0", not 2).
func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.StringFixed(1))
}

// UnmarshalJSON accepts both "2.0" and 2.0 forms.
func (h *Hours) UnmarshalJSON(b []byte) error {
	return h.Decimal.UnmarshalJSON(b)
}

// ─── Entities ────────────────────────────────────────────────────────────────
//
// Datetimes are RFC3339 UTC strings; dates are YYYY-MM-DD strings.
// Struct field names and json tags are the schema-level names exposed to
// callers; db tags are the storage columns.

// Employer is a party on whose behalf project work may be performed.
type Employer struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Notes     *string `db:"notes" json:"notes,omitempty"`
	Tags      Tags    `db:"tags" json:"tags"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}

// Client is a billed party owning projects.
type Client struct {
	ID              int64        `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	Type            ClientType   `db:"type" json:"type"`
	Status          ClientStatus `db:"status" json:"status"`
	ContactPersonID *int64       `db:"contact_person_id" json:"contact_person_id,omitempty"`
	Notes           *string      `db:"notes" json:"notes,omitempty"`
	Tags            Tags         `db:"tags" json:"tags"`
	CreatedAt       string       `db:"created_at" json:"created_at"`
	UpdatedAt       string       `db:"updated_at" json:"updated_at"`
}

// Project is a billable engagement for a client.
type Project struct {
	ID           int64         `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	ClientID     int64         `db:"client_id" json:"client_id"`
	OnBehalfOfID *int64        `db:"on_behalf_of_id" json:"on_behalf_of,omitempty"`
	Description  *string       `db:"description" json:"description,omitempty"`
	Status       ProjectStatus `db:"status" json:"status"`
	StartDate    *string       `db:"start_date" json:"start_date,omitempty"`
	EndDate      *string       `db:"end_date" json:"end_date,omitempty"`
	Tags         Tags          `db:"tags" json:"tags"`
	CreatedAt    string        `db:"created_at" json:"created_at"`
	UpdatedAt    string        `db:"updated_at" json:"updated_at"`
}

// Person is a contact, optionally flagged as a stakeholder.
type Person struct {
	ID             int64      `db:"id" json:"id"`
	FullName       string     `db:"full_name" json:"full_name"`
	Email          *string    `db:"email" json:"email,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	LinkedinURL    *string    `db:"linkedin_url" json:"linkedin_url,omitempty"`
	Company        *string    `db:"company" json:"company,omitempty"`
	Title          *string    `db:"title" json:"title,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	AdditionalInfo JSONObject `db:"additional_info" json:"additional_info,omitempty"`
	IsStakeholder  bool       `db:"is_stakeholder" json:"is_stakeholder"`
	Tags           Tags       `db:"tags" json:"tags"`
	CreatedAt      string     `db:"created_at" json:"created_at"`
	UpdatedAt      string     `db:"updated_at" json:"updated_at"`
}

// EmploymentHistory records a person's role at a client over time. A
// null end date marks the current engagement; a person has at most one
// current row per client.
type EmploymentHistory struct {
	ID        int64   `db:"id" json:"id"`
	PersonID  int64   `db:"person_id" json:"person_id"`
	ClientID  int64   `db:"client_id" json:"client_id"`
	Role      string  `db:"role" json:"role"`
	StartDate string  `db:"start_date" json:"start_date"`
	EndDate   *string `db:"end_date" json:"end_date,omitempty"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	UpdatedAt string  `db:"updated_at" json:"updated_at"`
}

// WorkSession is a block of time spent on one project, with the
// half-hour-rounded duration that feeds billing.
type WorkSession struct {
	ID            int64        `db:"id" json:"id"`
	ProjectID     int64        `db:"project_id" json:"project_id"`
	Date          string       `db:"date" json:"date"`
	StartTime     string       `db:"start_time" json:"start_time"`
	EndTime       string       `db:"end_time" json:"end_time"`
	DurationHours Hours        `db:"duration_hours" json:"duration_hours"`
	Summary       *string      `db:"summary" json:"summary,omitempty"`
	PrivacyLevel  PrivacyLevel `db:"privacy_level" json:"privacy_level"`
	Tags          Tags         `db:"tags" json:"tags"`
	CreatedAt     string       `db:"created_at" json:"created_at"`
	UpdatedAt     string       `db:"updated_at" json:"updated_at"`
}

// Meeting is a scheduled discussion, optionally tied to a project.
type Meeting struct {
	ID              int64        `db:"id" json:"id"`
	Title           string       `db:"title" json:"title"`
	StartTime       string       `db:"start_time" json:"start_time"`
	DurationMinutes int          `db:"duration_minutes" json:"duration_minutes"`
	Summary         *string      `db:"summary" json:"summary,omitempty"`
	PrivacyLevel    PrivacyLevel `db:"privacy_level" json:"privacy_level"`
	ProjectID       *int64       `db:"project_id" json:"project_id,omitempty"`
	MeetingType     *string      `db:"meeting_type" json:"meeting_type,omitempty"`
	Location        *string      `db:"location" json:"location,omitempty"`
	Tags            Tags         `db:"tags" json:"tags"`
	CreatedAt       string       `db:"created_at" json:"created_at"`
	UpdatedAt       string       `db:"updated_at" json:"updated_at"`

	// AttendeeIDs is loaded from the meeting_attendees join table.
	AttendeeIDs []int64 `db:"-" json:"attendee_ids"`
}

// Note is free text optionally attached to one entity.
type Note struct {
	ID           int64        `db:"id" json:"id"`
	Text         string       `db:"text" json:"text"`
	PrivacyLevel PrivacyLevel `db:"privacy_level" json:"privacy_level"`
	EntityType   *EntityType  `db:"entity_type" json:"entity_type,omitempty"`
	EntityID     *int64       `db:"entity_id" json:"entity_id,omitempty"`
	Tags         Tags         `db:"tags" json:"tags"`
	CreatedAt    string       `db:"created_at" json:"created_at"`
	UpdatedAt    string       `db:"updated_at" json:"updated_at"`
}

// Reminder is a time-triggered notification, optionally recurring and
// optionally linked to an entity.
type Reminder struct {
	ID                int64       `db:"id" json:"id"`
	ReminderTime      string      `db:"reminder_time" json:"reminder_time"`
	Message           string      `db:"message" json:"message"`
	IsCompleted       bool        `db:"is_completed" json:"is_completed"`
	RecurrenceConfig  JSONObject  `db:"recurrence_config" json:"recurrence_config,omitempty"`
	RelatedEntityType *EntityType `db:"related_entity_type" json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64      `db:"related_entity_id" json:"related_entity_id,omitempty"`
	SnoozedUntil      *string     `db:"snoozed_until" json:"snoozed_until,omitempty"`
	LastNotifiedAt    *string     `db:"last_notified_at" json:"last_notified_at,omitempty"`
	Tags              Tags        `db:"tags" json:"tags"`
	CreatedAt         string      `db:"created_at" json:"created_at"`
	UpdatedAt         string      `db:"updated_at" json:"updated_at"`
}

// User is the singleton profile row.
type User struct {
	ID                  int64        `db:"id" json:"id"`
	Name                string       `db:"name" json:"name"`
	Email               string       `db:"email" json:"email"`
	Timezone            string       `db:"timezone" json:"timezone"`
	DefaultWeekBoundary string       `db:"default_week_boundary" json:"default_week_boundary"`
	DefaultPrivacyLevel PrivacyLevel `db:"default_privacy_level" json:"default_privacy_level"`
	CreatedAt           string       `db:"created_at" json:"created_at"`
	UpdatedAt           string       `db:"updated_at" json:"updated_at"`
}
