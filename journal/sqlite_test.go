package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('steps','events')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["steps"])
	assert.True(t, found["events"])
}

func TestSQLiteRecordStep(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	rec := StepRecord{
		RunID:         "run-1",
		Step:          5,
		Date:          date,
		TotalAssets:   2_000_000,
		CET1:          160_000,
		CET1Ratio:     0.152,
		LeverageRatio: 0.065,
		LCR:           1.4,
		NSFR:          1.1,
		NetIncome:     4321.0,
		HasFailed:     false,
	}

	assert.NoError(t, j.RecordStep(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		runID         string
		step          int
		gotDate       time.Time
		totalAssets   float64
		cet1          float64
		cet1Ratio     float64
		leverageRatio float64
		lcr           float64
		nsfr          float64
		netIncome     float64
		hasFailed     bool
	)

	err = db.QueryRow(`
        SELECT run_id, step, date, total_assets, cet1, cet1_ratio, leverage_ratio, lcr, nsfr, net_income, has_failed
        FROM steps LIMIT 1`).Scan(
		&runID, &step, &gotDate, &totalAssets, &cet1, &cet1Ratio, &leverageRatio, &lcr, &nsfr, &netIncome, &hasFailed,
	)
	assert.NoError(t, err)

	assert.Equal(t, rec.RunID, runID)
	assert.Equal(t, rec.Step, step)
	assert.True(t, gotDate.Equal(rec.Date))
	assert.InDelta(t, rec.TotalAssets, totalAssets, 1e-6)
	assert.InDelta(t, rec.CET1, cet1, 1e-6)
	assert.InDelta(t, rec.CET1Ratio, cet1Ratio, 1e-9)
	assert.InDelta(t, rec.LeverageRatio, leverageRatio, 1e-9)
	assert.InDelta(t, rec.LCR, lcr, 1e-9)
	assert.InDelta(t, rec.NSFR, nsfr, 1e-9)
	assert.InDelta(t, rec.NetIncome, netIncome, 1e-6)
	assert.Equal(t, rec.HasFailed, hasFailed)
}

func TestSQLiteRecordEvent(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	rec := EventRecord{
		EventID:  "evt-1",
		RunID:    "run-1",
		Step:     5,
		Severity: "critical",
		Kind:     "counterpartyDefault",
		Message:  "corporate loan counterparty defaulted",
	}

	assert.NoError(t, j.RecordEvent(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		eventID  string
		runID    string
		step     int
		severity string
		kind     string
		message  string
	)

	err = db.QueryRow(`
        SELECT event_id, run_id, step, severity, kind, message
        FROM events LIMIT 1`).Scan(
		&eventID, &runID, &step, &severity, &kind, &message,
	)
	assert.NoError(t, err)

	assert.Equal(t, rec.EventID, eventID)
	assert.Equal(t, rec.RunID, runID)
	assert.Equal(t, rec.Step, step)
	assert.Equal(t, rec.Severity, severity)
	assert.Equal(t, rec.Kind, kind)
	assert.Equal(t, rec.Message, message)
}
