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

CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	username   TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	deadline          DATETIME,
	created_at        DATETIME NOT NULL,
	is_completed      INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	is_delegated      INTEGER NOT NULL DEFAULT 0 CHECK(is_delegated IN (0, 1)),
	creator_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	responsible_id    TEXT REFERENCES users(id) ON DELETE SET NULL,
	delegated_from_id TEXT REFERENCES users(id) ON DELETE SET NULL,
	delegated_at      DATETIME,
	completed_at      DATETIME,
	updated_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_creator_id ON tasks(creator_id);
CREATE INDEX IF NOT EXISTS idx_tasks_responsible_id ON tasks(responsible_id);
CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);

CREATE TABLE IF NOT EXISTS task_participants (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role       TEXT NOT NULL CHECK(role IN ('executor', 'responsible', 'observer')),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(task_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_task_participants_user_id ON task_participants(user_id);

CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	deadline    DATETIME,
	creator_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS project_members (
	id         TEXT PRIMARY KEY,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role       TEXT NOT NULL CHECK(role IN ('manager', 'member', 'observer')),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(project_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_project_members_user_id ON project_members(user_id);

CREATE TABLE IF NOT EXISTS project_items (
	id           TEXT PRIMARY KEY,
	project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	deadline     DATETIME,
	is_completed INTEGER NOT NULL DEFAULT 0 CHECK(is_completed IN (0, 1)),
	sort_order   INTEGER NOT NULL DEFAULT 0,
	completed_at DATETIME,
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_project_items_project_id ON project_items(project_id, sort_order);

CREATE TABLE IF NOT EXISTS project_item_assignees (
	item_id TEXT NOT NULL REFERENCES project_items(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (item_id, user_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	task_id    TEXT REFERENCES tasks(id) ON DELETE CASCADE,
	project_id TEXT REFERENCES projects(id) ON DELETE CASCADE,
	sender_id  TEXT REFERENCES users(id) ON DELETE SET NULL,
	content    TEXT NOT NULL,
	is_system  INTEGER NOT NULL DEFAULT 0 CHECK(is_system IN (0, 1)),
	created_at DATETIME NOT NULL,
	CHECK ((task_id IS NULL) <> (project_id IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_messages_task_id ON messages(task_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_project_id ON messages(project_id, created_at);

CREATE TABLE IF NOT EXISTS attachments (
	id           TEXT PRIMARY KEY,
	task_id      TEXT REFERENCES tasks(id) ON DELETE CASCADE,
	project_id   TEXT REFERENCES projects(id) ON DELETE CASCADE,
	uploaded_by  TEXT REFERENCES users(id) ON DELETE SET NULL,
	name         TEXT NOT NULL,
	blob_ref     TEXT NOT NULL,
	size         INTEGER NOT NULL DEFAULT 0,
	content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
	digest       TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL,
	CHECK ((task_id IS NULL) <> (project_id IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_attachments_task_id ON attachments(task_id);
CREATE INDEX IF NOT EXISTS idx_attachments_project_id ON attachments(project_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
