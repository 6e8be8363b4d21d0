// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS steps (
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	date DATETIME NOT NULL,
	total_assets REAL NOT NULL,
	cet1 REAL NOT NULL,
	cet1_ratio REAL NOT NULL,
	leverage_ratio REAL NOT NULL,
	lcr REAL NOT NULL,
	nsfr REAL NOT NULL,
	net_income REAL NOT NULL,
	has_failed INTEGER NOT NULL,
	PRIMARY KEY (run_id, step)
);

CREATE TABLE IF NOT EXISTS events (
	event_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	severity TEXT NOT NULL,
	kind TEXT NOT NULL,
	message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id, step);
CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, step);
`
