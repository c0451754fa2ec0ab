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

CREATE TABLE IF NOT EXISTS accounts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	industry   TEXT NOT NULL DEFAULT '',
	website    TEXT NOT NULL DEFAULT '',
	owner_id   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	account_id TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS products (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	sku        TEXT NOT NULL DEFAULT '',
	price      REAL NOT NULL DEFAULT 0,
	active     INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	email        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS opportunities (
	id         TEXT PRIMARY KEY,
	account_id TEXT NOT NULL DEFAULT '',
	contact_id TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL,
	stage      TEXT NOT NULL DEFAULT 'lead',
	value      REAL NOT NULL DEFAULT 0,
	priority   TEXT NOT NULL DEFAULT '',
	owner_id   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS opportunity_activities (
	id             TEXT PRIMARY KEY,
	parent_id      TEXT NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
	subject        TEXT NOT NULL,
	kind           TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'scheduled',
	date_time      DATETIME,
	follow_up_date DATETIME,
	priority       TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS opportunity_checklist (
	id           TEXT PRIMARY KEY,
	parent_id    TEXT NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
	text         TEXT NOT NULL DEFAULT '',
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	due_date     DATETIME,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS opportunity_blockers (
	id           TEXT PRIMARY KEY,
	parent_id    TEXT NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
	text         TEXT NOT NULL DEFAULT '',
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	due_date     DATETIME,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS assignments (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'todo' CHECK(status IN ('todo', 'in_progress', 'done')),
	assigned_to TEXT NOT NULL DEFAULT '',
	account_id  TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assignment_checklist (
	id           TEXT PRIMARY KEY,
	parent_id    TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
	text         TEXT NOT NULL DEFAULT '',
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	due_date     DATETIME,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS assignment_activities (
	id             TEXT PRIMARY KEY,
	parent_id      TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
	subject        TEXT NOT NULL,
	kind           TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'scheduled',
	date_time      DATETIME,
	follow_up_date DATETIME,
	priority       TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_opportunities_account_id ON opportunities(account_id);
CREATE INDEX IF NOT EXISTS idx_opportunities_stage ON opportunities(stage);
CREATE INDEX IF NOT EXISTS idx_opportunities_owner_id ON opportunities(owner_id);
CREATE INDEX IF NOT EXISTS idx_opp_activities_parent ON opportunity_activities(parent_id);
CREATE INDEX IF NOT EXISTS idx_opp_checklist_parent ON opportunity_checklist(parent_id);
CREATE INDEX IF NOT EXISTS idx_opp_blockers_parent ON opportunity_blockers(parent_id);
CREATE INDEX IF NOT EXISTS idx_assignments_status ON assignments(status);
CREATE INDEX IF NOT EXISTS idx_assignments_assigned_to ON assignments(assigned_to);
CREATE INDEX IF NOT EXISTS idx_asg_checklist_parent ON assignment_checklist(parent_id);
CREATE INDEX IF NOT EXISTS idx_asg_activities_parent ON assignment_activities(parent_id);
CREATE INDEX IF NOT EXISTS idx_contacts_account_id ON contacts(account_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
