package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetStep returns a single step record by run and step number.
func (j *SQLiteJournal) GetStep(runID string, step int) (StepRecord, error) {
	var rec StepRecord

	row := j.db.QueryRow(`
		SELECT run_id, step, date, total_assets, cet1, cet1_ratio, leverage_ratio, lcr, nsfr, net_income, has_failed
		FROM steps
		WHERE run_id = ? AND step = ?`, runID, step)

	err := row.Scan(
		&rec.RunID,
		&rec.Step,
		&rec.Date,
		&rec.TotalAssets,
		&rec.CET1,
		&rec.CET1Ratio,
		&rec.LeverageRatio,
		&rec.LCR,
		&rec.NSFR,
		&rec.NetIncome,
		&rec.HasFailed,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return StepRecord{}, fmt.Errorf("run %q step %d not found", runID, step)
		}
		return StepRecord{}, err
	}
	return rec, nil
}

// ListStepsByRun returns every step recorded for runID, ordered by step
// number ascending.
func (j *SQLiteJournal) ListStepsByRun(runID string) ([]StepRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, step, date, total_assets, cet1, cet1_ratio, leverage_ratio, lcr, nsfr, net_income, has_failed
		FROM steps
		WHERE run_id = ?
		ORDER BY step ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var rec StepRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Step,
			&rec.Date,
			&rec.TotalAssets,
			&rec.CET1,
			&rec.CET1Ratio,
			&rec.LeverageRatio,
			&rec.LCR,
			&rec.NSFR,
			&rec.NetIncome,
			&rec.HasFailed,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStepsBetween returns steps for runID whose date falls within
// [start, end).
func (j *SQLiteJournal) ListStepsBetween(runID string, start, end time.Time) ([]StepRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, step, date, total_assets, cet1, cet1_ratio, leverage_ratio, lcr, nsfr, net_income, has_failed
		FROM steps
		WHERE run_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC`, runID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var rec StepRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Step,
			&rec.Date,
			&rec.TotalAssets,
			&rec.CET1,
			&rec.CET1Ratio,
			&rec.LeverageRatio,
			&rec.LCR,
			&rec.NSFR,
			&rec.NetIncome,
			&rec.HasFailed,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEventsByRun returns every event recorded for runID, ordered by
// step ascending.
func (j *SQLiteJournal) ListEventsByRun(runID string) ([]EventRecord, error) {
	rows, err := j.db.Query(`
		SELECT event_id, run_id, step, severity, kind, message
		FROM events
		WHERE run_id = ?
		ORDER BY step ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var rec EventRecord
		if err := rows.Scan(
			&rec.EventID,
			&rec.RunID,
			&rec.Step,
			&rec.Severity,
			&rec.Kind,
			&rec.Message,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
