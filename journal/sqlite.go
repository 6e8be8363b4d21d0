package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordStep(r StepRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO steps
		(run_id, step, date, total_assets, cet1, cet1_ratio, leverage_ratio, lcr, nsfr, net_income, has_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Step, r.Date, r.TotalAssets, r.CET1, r.CET1Ratio,
		r.LeverageRatio, r.LCR, r.NSFR, r.NetIncome, r.HasFailed,
	)
	return err
}

func (j *SQLiteJournal) RecordEvent(e EventRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO events
		(event_id, run_id, step, severity, kind, message)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventID, e.RunID, e.Step, e.Severity, e.Kind, e.Message,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
