package query

import "github.com/jarosser06/mosaic/internal/store"

// fieldKind classifies a leaf field for operator compatibility.
type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindDecimal // 1dp text in storage, compared via CAST
	kindBool
	kindDate
	kindDatetime
	kindTags
	kindJSON // opaque object, only null tests apply
)

// orderable reports whether gt/gte/lt/lte apply.
func (k fieldKind) orderable() bool {
	switch k {
	case kindNumber, kindDecimal, kindDate, kindDatetime:
		return true
	}
	return false
}

// scalar reports whether eq/ne/in/not_in apply.
func (k fieldKind) scalar() bool {
	return k != kindTags && k != kindJSON
}

// field describes one queryable leaf: its storage column and kind.
// Schema-level FK names (on_behalf_of) map onto their id columns here.
type field struct {
	column   string
	kind     fieldKind
	nullable bool
}

// edge is a relationship step in a path.
type edge struct {
	target string // entity name in the graph
	// fkColumn on the source row pointing at the target's id, for
	// single-valued edges.
	fkColumn string
	// collection edges join through a child table keyed back to the
	// source (meeting_attendees.meeting_id).
	collection bool
	childKey   string
}

// entityDef is one node of the relationship graph.
type entityDef struct {
	table     string
	fields    map[string]field
	relations map[string]edge
	// privacy marks entities carrying a privacy_level column.
	privacy bool
}

// graph is the startup-precomputed schema: every queryable entity, its
// fields under schema names, and its traversable relationships.
var graph = map[string]entityDef{
	"work_session": {
		table:   "work_sessions",
		privacy: true,
		fields: map[string]field{
			"id":             {"id", kindNumber, false},
			"project":        {"project_id", kindNumber, false},
			"project_id":     {"project_id", kindNumber, false},
			"date":           {"date", kindDate, false},
			"start_time":     {"start_time", kindDatetime, false},
			"end_time":       {"end_time", kindDatetime, false},
			"duration_hours": {"duration_hours", kindDecimal, false},
			"summary":        {"summary", kindString, true},
			"privacy_level":  {"privacy_level", kindString, false},
			"tags":           {"tags", kindTags, false},
			"created_at":     {"created_at", kindDatetime, false},
			"updated_at":     {"updated_at", kindDatetime, false},
		},
		relations: map[string]edge{
			"project": {target: "project", fkColumn: "project_id"},
		},
	},
	"meeting": {
		table:   "meetings",
		privacy: true,
		fields: map[string]field{
			"id":               {"id", kindNumber, false},
			"title":            {"title", kindString, false},
			"start_time":       {"start_time", kindDatetime, false},
			"duration_minutes": {"duration_minutes", kindNumber, false},
			"summary":          {"summary", kindString, true},
			"privacy_level":    {"privacy_level", kindString, false},
			"project":          {"project_id", kindNumber, true},
			"project_id":       {"project_id", kindNumber, true},
			"meeting_type":     {"meeting_type", kindString, true},
			"location":         {"location", kindString, true},
			"tags":             {"tags", kindTags, false},
			"created_at":       {"created_at", kindDatetime, false},
			"updated_at":       {"updated_at", kindDatetime, false},
		},
		relations: map[string]edge{
			"project":   {target: "project", fkColumn: "project_id"},
			"attendees": {target: "attendee", collection: true, childKey: "meeting_id"},
		},
	},
	// attendee is the join row behind meeting.attendees; reachable only
	// through that collection edge.
	"attendee": {
		table: "meeting_attendees",
		fields: map[string]field{
			"person":    {"person_id", kindNumber, false},
			"person_id": {"person_id", kindNumber, false},
		},
		relations: map[string]edge{
			"person": {target: "person", fkColumn: "person_id"},
		},
	},
	"project": {
		table: "projects",
		fields: map[string]field{
			"id":           {"id", kindNumber, false},
			"name":         {"name", kindString, false},
			"client":       {"client_id", kindNumber, false},
			"client_id":    {"client_id", kindNumber, false},
			"on_behalf_of": {"on_behalf_of_id", kindNumber, true},
			"description":  {"description", kindString, true},
			"status":       {"status", kindString, false},
			"start_date":   {"start_date", kindDate, true},
			"end_date":     {"end_date", kindDate, true},
			"tags":         {"tags", kindTags, false},
			"created_at":   {"created_at", kindDatetime, false},
			"updated_at":   {"updated_at", kindDatetime, false},
		},
		relations: map[string]edge{
			"client":       {target: "client", fkColumn: "client_id"},
			"on_behalf_of": {target: "employer", fkColumn: "on_behalf_of_id"},
		},
	},
	"client": {
		table: "clients",
		fields: map[string]field{
			"id":             {"id", kindNumber, false},
			"name":           {"name", kindString, false},
			"type":           {"type", kindString, false},
			"status":         {"status", kindString, false},
			"contact_person": {"contact_person_id", kindNumber, true},
			"notes":          {"notes", kindString, true},
			"tags":           {"tags", kindTags, false},
			"created_at":     {"created_at", kindDatetime, false},
			"updated_at":     {"updated_at", kindDatetime, false},
		},
		relations: map[string]edge{
			"contact_person": {target: "person", fkColumn: "contact_person_id"},
		},
	},
	"person": {
		table: "people",
		fields: map[string]field{
			"id":              {"id", kindNumber, false},
			"full_name":       {"full_name", kindString, false},
			"email":           {"email", kindString, true},
			"phone":           {"phone", kindString, true},
			"linkedin_url":    {"linkedin_url", kindString, true},
			"company":         {"company", kindString, true},
			"title":           {"title", kindString, true},
			"notes":           {"notes", kindString, true},
			"additional_info": {"additional_info", kindJSON, true},
			"is_stakeholder":  {"is_stakeholder", kindBool, false},
			"tags":            {"tags", kindTags, false},
			"created_at":      {"created_at", kindDatetime, false},
			"updated_at":      {"updated_at", kindDatetime, false},
		},
	},
	"employer": {
		table: "employers",
		fields: map[string]field{
			"id":         {"id", kindNumber, false},
			"name":       {"name", kindString, false},
			"notes":      {"notes", kindString, true},
			"tags":       {"tags", kindTags, false},
			"created_at": {"created_at", kindDatetime, false},
			"updated_at": {"updated_at", kindDatetime, false},
		},
	},
	"note": {
		table:   "notes",
		privacy: true,
		fields: map[string]field{
			"id":            {"id", kindNumber, false},
			"text":          {"text", kindString, false},
			"privacy_level": {"privacy_level", kindString, false},
			"entity_type":   {"entity_type", kindString, true},
			"entity_id":     {"entity_id", kindNumber, true},
			"tags":          {"tags", kindTags, false},
			"created_at":    {"created_at", kindDatetime, false},
			"updated_at":    {"updated_at", kindDatetime, false},
		},
	},
	"reminder": {
		table: "reminders",
		fields: map[string]field{
			"id":                  {"id", kindNumber, false},
			"reminder_time":       {"reminder_time", kindDatetime, false},
			"message":             {"message", kindString, false},
			"is_completed":        {"is_completed", kindBool, false},
			"recurrence_config":   {"recurrence_config", kindJSON, true},
			"related_entity_type": {"related_entity_type", kindString, true},
			"related_entity_id":   {"related_entity_id", kindNumber, true},
			"snoozed_until":       {"snoozed_until", kindDatetime, true},
			"last_notified_at":    {"last_notified_at", kindDatetime, true},
			"tags":                {"tags", kindTags, false},
			"created_at":          {"created_at", kindDatetime, false},
			"updated_at":          {"updated_at", kindDatetime, false},
		},
	},
}

// queryableEntity maps the public entity_type onto its graph node.
// "attendee" is internal and deliberately not queryable as a root.
func queryableEntity(et store.EntityType) (entityDef, bool) {
	if !et.Valid() {
		return entityDef{}, false
	}
	def, ok := graph[string(et)]
	return def, ok
}
