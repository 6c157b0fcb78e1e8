package store

// schemaV1 is the initial schema. Enumerations are stored as their
// textual names, datetimes as RFC3339 UTC text, dates as YYYY-MM-DD
// text, decimals as 1dp text, and tag sets as JSON arrays.
//
// RESTRICT foreign keys encode hard ownership for the billing-critical
// chain (work_sessions -> projects -> clients); cascade delete applies
// only to collection children (meeting_attendees, employment_history).
const schemaV1 = `
CREATE TABLE IF NOT EXISTS employers (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL CHECK (name <> ''),
	notes      TEXT,
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name       TEXT NOT NULL CHECK (full_name <> ''),
	email           TEXT,
	phone           TEXT,
	linkedin_url    TEXT,
	company         TEXT,
	title           TEXT,
	notes           TEXT,
	additional_info TEXT,
	is_stakeholder  INTEGER NOT NULL DEFAULT 0,
	tags            TEXT NOT NULL DEFAULT '[]',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL CHECK (name <> ''),
	type              TEXT NOT NULL CHECK (type IN ('company', 'individual')),
	status            TEXT NOT NULL CHECK (status IN ('active', 'past')),
	contact_person_id INTEGER REFERENCES people(id) ON DELETE SET NULL,
	notes             TEXT,
	tags              TEXT NOT NULL DEFAULT '[]',
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL CHECK (name <> ''),
	client_id       INTEGER NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
	on_behalf_of_id INTEGER REFERENCES employers(id) ON DELETE RESTRICT,
	description     TEXT,
	status          TEXT NOT NULL CHECK (status IN ('active', 'paused', 'completed')),
	start_date      TEXT,
	end_date        TEXT,
	tags            TEXT NOT NULL DEFAULT '[]',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL,
	CHECK (status <> 'completed' OR end_date IS NOT NULL)
);

CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id);

CREATE TABLE IF NOT EXISTS employment_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	person_id  INTEGER NOT NULL REFERENCES people(id) ON DELETE CASCADE,
	client_id  INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date   TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

-- At most one current (open-ended) engagement per person and client.
CREATE UNIQUE INDEX IF NOT EXISTS idx_employment_current
	ON employment_history(person_id, client_id) WHERE end_date IS NULL;

CREATE TABLE IF NOT EXISTS work_sessions (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id     INTEGER NOT NULL REFERENCES projects(id) ON DELETE RESTRICT,
	date           TEXT NOT NULL,
	start_time     TEXT NOT NULL,
	end_time       TEXT NOT NULL,
	duration_hours TEXT NOT NULL,
	summary        TEXT,
	privacy_level  TEXT NOT NULL CHECK (privacy_level IN ('public', 'internal', 'private')),
	tags           TEXT NOT NULL DEFAULT '[]',
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_work_sessions_project_date ON work_sessions(project_id, date);

CREATE TABLE IF NOT EXISTS meetings (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT NOT NULL CHECK (title <> ''),
	start_time       TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
	summary          TEXT,
	privacy_level    TEXT NOT NULL CHECK (privacy_level IN ('public', 'internal', 'private')),
	project_id       INTEGER REFERENCES projects(id) ON DELETE SET NULL,
	meeting_type     TEXT,
	location         TEXT,
	tags             TEXT NOT NULL DEFAULT '[]',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meetings_start ON meetings(start_time);

CREATE TABLE IF NOT EXISTS meeting_attendees (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	meeting_id INTEGER NOT NULL REFERENCES meetings(id) ON DELETE CASCADE,
	person_id  INTEGER NOT NULL REFERENCES people(id) ON DELETE CASCADE,
	UNIQUE (meeting_id, person_id)
);

CREATE TABLE IF NOT EXISTS notes (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	text          TEXT NOT NULL CHECK (text <> ''),
	privacy_level TEXT NOT NULL CHECK (privacy_level IN ('public', 'internal', 'private')),
	entity_type   TEXT,
	entity_id     INTEGER,
	tags          TEXT NOT NULL DEFAULT '[]',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	CHECK ((entity_type IS NULL) = (entity_id IS NULL))
);

CREATE TABLE IF NOT EXISTS reminders (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	reminder_time       TEXT NOT NULL,
	message             TEXT NOT NULL CHECK (message <> ''),
	is_completed        INTEGER NOT NULL DEFAULT 0,
	recurrence_config   TEXT,
	related_entity_type TEXT,
	related_entity_id   INTEGER,
	snoozed_until       TEXT,
	last_notified_at    TEXT,
	tags                TEXT NOT NULL DEFAULT '[]',
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL,
	CHECK ((related_entity_type IS NULL) = (related_entity_id IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_reminders_active ON reminders(reminder_time, is_completed);

CREATE TABLE IF NOT EXISTS users (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	name                  TEXT NOT NULL DEFAULT '',
	email                 TEXT NOT NULL DEFAULT '',
	timezone              TEXT NOT NULL DEFAULT 'UTC',
	default_week_boundary TEXT NOT NULL DEFAULT 'mon-fri',
	default_privacy_level TEXT NOT NULL DEFAULT 'private',
	created_at            TEXT NOT NULL,
	updated_at            TEXT NOT NULL
);
`
