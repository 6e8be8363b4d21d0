package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stepsPath := filepath.Join(dir, "steps.csv")
	eventsPath := filepath.Join(dir, "events.csv")

	j, err := NewCSV(stepsPath, eventsPath)
	assert.NoError(t, err)
	assert.NoError(t, j.Close())

	stepsData, err := os.ReadFile(stepsPath)
	assert.NoError(t, err)
	eventsData, err := os.ReadFile(eventsPath)
	assert.NoError(t, err)

	stepsReader := csv.NewReader(strings.NewReader(string(stepsData)))
	stepsHeader, err := stepsReader.Read()
	assert.NoError(t, err)

	eventsReader := csv.NewReader(strings.NewReader(string(eventsData)))
	eventsHeader, err := eventsReader.Read()
	assert.NoError(t, err)

	wantSteps := []string{"run_id", "step", "date", "total_assets", "cet1", "cet1_ratio", "leverage_ratio", "lcr", "nsfr", "net_income", "has_failed"}
	assert.Equal(t, wantSteps, stepsHeader)

	wantEvents := []string{"event_id", "run_id", "step", "severity", "kind", "message"}
	assert.Equal(t, wantEvents, eventsHeader)
}

func TestCSVJournalRecordStep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stepsPath := filepath.Join(dir, "steps.csv")
	eventsPath := filepath.Join(dir, "events.csv")

	j, err := NewCSV(stepsPath, eventsPath)
	assert.NoError(t, err)

	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	err = j.RecordStep(StepRecord{
		RunID:         "run-1",
		Step:          3,
		Date:          date,
		TotalAssets:   1_000_000.5,
		CET1:          80_000.25,
		CET1Ratio:     0.145,
		LeverageRatio: 0.06,
		LCR:           1.35,
		NSFR:          1.12,
		NetIncome:     1234.5,
		HasFailed:     false,
	})
	assert.NoError(t, err)

	assert.NoError(t, j.Close())

	stepsData, err := os.ReadFile(stepsPath)
	assert.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(stepsData)))
	_, err = reader.Read() // header
	assert.NoError(t, err)
	row, err := reader.Read()
	assert.NoError(t, err)

	want := []string{
		"run-1",
		"3",
		date.Format(time.RFC3339),
		"1000000.500000",
		"80000.250000",
		"0.145000",
		"0.060000",
		"1.350000",
		"1.120000",
		"1234.500000",
		"false",
	}
	assert.Equal(t, want, row)
}

func TestCSVJournalRecordEvent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stepsPath := filepath.Join(dir, "steps.csv")
	eventsPath := filepath.Join(dir, "events.csv")

	j, err := NewCSV(stepsPath, eventsPath)
	assert.NoError(t, err)

	err = j.RecordEvent(EventRecord{
		EventID:  "evt-1",
		RunID:    "run-1",
		Step:     3,
		Severity: "warning",
		Kind:     "lcrBreach",
		Message:  "LCR fell below 100%",
	})
	assert.NoError(t, err)

	assert.NoError(t, j.Close())

	eventsData, err := os.ReadFile(eventsPath)
	assert.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(eventsData)))
	_, err = reader.Read() // header
	assert.NoError(t, err)
	row, err := reader.Read()
	assert.NoError(t, err)

	want := []string{"evt-1", "run-1", "3", "warning", "lcrBreach", "LCR fell below 100%"}
	assert.Equal(t, want, row)
}
