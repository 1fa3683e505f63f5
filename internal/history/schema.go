package history

// schemaVersion is the target schema version for this build.
const schemaVersion = 1

// schema holds one row per recorded engine run (samples) and the
// headline entries captured with it (sample_entries).
var schema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS samples (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at         TEXT NOT NULL,
	granularity      TEXT NOT NULL,
	leaf_count       INTEGER NOT NULL,
	avg_completeness REAL NOT NULL,
	grand_current    INTEGER NOT NULL,
	grand_projected  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sample_entries (
	sample_id  INTEGER NOT NULL REFERENCES samples(id),
	rank       INTEGER NOT NULL,
	candidate  TEXT NOT NULL,
	current    INTEGER NOT NULL,
	projected  INTEGER NOT NULL,
	percentage REAL NOT NULL,
	PRIMARY KEY (sample_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_sample_entries_candidate ON sample_entries(candidate);
`
