package store

// migration holds a single named schema step with its target version and SQL.
type migration struct {
	version int
	name    string
	sql     string
}

// ledgerDDL creates the table recording which migrations have been applied.
const ledgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	applied_at DATETIME NOT NULL
);`

// migrations is the ordered list of schema migrations.
// Versions must be strictly increasing; a step is never edited once shipped.
var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE homes (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	address        TEXT NOT NULL DEFAULT '',
	purchase_date  DATETIME,
	square_footage INTEGER,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL
);

CREATE TABLE categories (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	home_id    INTEGER NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	icon       TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE locations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	home_id    INTEGER NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	floor      INTEGER,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE assets (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	home_id             INTEGER NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
	category_id         INTEGER REFERENCES categories(id) ON DELETE SET NULL,
	location_id         INTEGER REFERENCES locations(id) ON DELETE SET NULL,
	name                TEXT NOT NULL,
	manufacturer        TEXT,
	model_number        TEXT,
	serial_number       TEXT,
	purchase_date       DATETIME,
	installation_date   DATETIME,
	warranty_expiration DATETIME,
	notes               TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL
);

CREATE TABLE service_providers (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	home_id    INTEGER NOT NULL REFERENCES homes(id) ON DELETE CASCADE,
	company    TEXT NOT NULL,
	name       TEXT,
	phone      TEXT,
	email      TEXT,
	specialty  TEXT,
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE maintenance_records (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id            INTEGER NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
	service_provider_id INTEGER REFERENCES service_providers(id) ON DELETE SET NULL,
	date                DATETIME NOT NULL,
	type                TEXT NOT NULL,
	description         TEXT,
	cost                TEXT,
	notes               TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL
);

CREATE TABLE maintenance_tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id     INTEGER REFERENCES assets(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	description  TEXT,
	due_date     DATETIME,
	priority     TEXT CHECK(priority IS NULL OR priority IN ('low', 'medium', 'high', 'urgent')),
	status       TEXT NOT NULL DEFAULT 'pending'
		CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')),
	completed_at DATETIME,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE TABLE attachments (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id              INTEGER REFERENCES assets(id) ON DELETE CASCADE,
	maintenance_record_id INTEGER REFERENCES maintenance_records(id) ON DELETE CASCADE,
	type                  TEXT NOT NULL
		CHECK(type IN ('photo', 'manual', 'receipt', 'warranty', 'invoice', 'other')),
	filename              TEXT NOT NULL,
	relative_path         TEXT NOT NULL,
	file_size             INTEGER,
	mime_type             TEXT NOT NULL DEFAULT '',
	created_at            DATETIME NOT NULL,
	updated_at            DATETIME NOT NULL,
	CHECK(asset_id IS NOT NULL OR maintenance_record_id IS NOT NULL)
);
`,
	},
	{
		version: 2,
		name:    "foreign_key_indexes",
		sql: `
CREATE INDEX IF NOT EXISTS idx_categories_home_id ON categories(home_id);
CREATE INDEX IF NOT EXISTS idx_locations_home_id ON locations(home_id);
CREATE INDEX IF NOT EXISTS idx_assets_home_id ON assets(home_id);
CREATE INDEX IF NOT EXISTS idx_assets_category_id ON assets(category_id);
CREATE INDEX IF NOT EXISTS idx_assets_location_id ON assets(location_id);
CREATE INDEX IF NOT EXISTS idx_service_providers_home_id ON service_providers(home_id);
CREATE INDEX IF NOT EXISTS idx_maintenance_records_asset_id ON maintenance_records(asset_id);
CREATE INDEX IF NOT EXISTS idx_maintenance_records_provider_id
	ON maintenance_records(service_provider_id);
CREATE INDEX IF NOT EXISTS idx_maintenance_tasks_asset_id ON maintenance_tasks(asset_id);
CREATE INDEX IF NOT EXISTS idx_attachments_asset_id ON attachments(asset_id);
CREATE INDEX IF NOT EXISTS idx_attachments_record_id ON attachments(maintenance_record_id);
`,
	},
	{
		version: 3,
		name:    "date_indexes",
		sql: `
CREATE INDEX IF NOT EXISTS idx_maintenance_records_date ON maintenance_records(date);
CREATE INDEX IF NOT EXISTS idx_maintenance_tasks_due_date ON maintenance_tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_maintenance_tasks_status ON maintenance_tasks(status);
CREATE INDEX IF NOT EXISTS idx_assets_warranty_expiration ON assets(warranty_expiration);
CREATE INDEX IF NOT EXISTS idx_attachments_relative_path ON attachments(relative_path);
`,
	},
}
