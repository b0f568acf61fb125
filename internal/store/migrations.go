package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL,
	start_date  TEXT NOT NULL,
	end_date    TEXT,
	status      TEXT NOT NULL DEFAULT 'draft' CHECK(status IN (
		'draft', 'planning', 'in_progress', 'completed', 'cancelled', 'postponed'
	)),
	location    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date);
CREATE INDEX IF NOT EXISTS idx_activities_status ON activities(status);
CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type);

CREATE TABLE IF NOT EXISTS checklists (
	id                    TEXT PRIMARY KEY,
	activity_id           TEXT NOT NULL UNIQUE REFERENCES activities(id) ON DELETE CASCADE,
	procedure_template_id TEXT NOT NULL,
	data                  TEXT NOT NULL,
	created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS reminder_states (
	reminder_id  TEXT PRIMARY KEY,
	activity_id  TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
	is_read      INTEGER NOT NULL DEFAULT 0 CHECK(is_read IN (0, 1)),
	is_dismissed INTEGER NOT NULL DEFAULT 0 CHECK(is_dismissed IN (0, 1)),
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reminder_states_activity_id ON reminder_states(activity_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
