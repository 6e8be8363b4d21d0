// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	steps  *csv.Writer
	events *csv.Writer
	sf, ef *os.File
}

func NewCSV(stepsPath, eventsPath string) (*CSVJournal, error) {
	sf, err := os.Create(stepsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(eventsPath)
	if err != nil {
		return nil, err
	}

	sw := csv.NewWriter(sf)
	ew := csv.NewWriter(ef)

	if err := sw.Write([]string{"run_id", "step", "date", "total_assets", "cet1", "cet1_ratio", "leverage_ratio", "lcr", "nsfr", "net_income", "has_failed"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"event_id", "run_id", "step", "severity", "kind", "message"}); err != nil {
		return nil, err
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{sw, ew, sf, ef}, nil
}

func (j *CSVJournal) RecordStep(r StepRecord) error {
	err := j.steps.Write([]string{
		r.RunID,
		strconv.Itoa(r.Step),
		r.Date.Format(time.RFC3339),
		f(r.TotalAssets),
		f(r.CET1),
		f(r.CET1Ratio),
		f(r.LeverageRatio),
		f(r.LCR),
		f(r.NSFR),
		f(r.NetIncome),
		strconv.FormatBool(r.HasFailed),
	})
	if err != nil {
		return err
	}
	j.steps.Flush()
	return j.steps.Error()
}

func (j *CSVJournal) RecordEvent(e EventRecord) error {
	err := j.events.Write([]string{
		e.EventID,
		e.RunID,
		strconv.Itoa(e.Step),
		e.Severity,
		e.Kind,
		e.Message,
	})
	if err != nil {
		return err
	}
	j.events.Flush()
	return j.events.Error()
}

func (j *CSVJournal) Close() error {
	j.steps.Flush()
	if err := j.steps.Error(); err != nil {
		return err
	}
	j.events.Flush()
	if err := j.events.Error(); err != nil {
		return err
	}

	if err := j.sf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
