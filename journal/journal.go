// Package journal persists step-by-step simulation results the way
// the teacher repository's journal package persists trade fills and
// equity snapshots: one interface, a CSV implementation and a SQLite
// implementation behind it, and a fixed schema.
package journal

import "time"

// StepRecord is one row of the run journal: the balance-sheet snapshot
// and regulatory ratios reported at the end of a step (spec §6,
// "run journal").
type StepRecord struct {
	RunID         string
	Step          int
	Date          time.Time
	TotalAssets   float64
	CET1          float64
	CET1Ratio     float64
	LeverageRatio float64
	LCR           float64
	NSFR          float64
	NetIncome     float64
	HasFailed     bool
}

// EventRecord is one notable occurrence raised during a step (spec §6).
type EventRecord struct {
	EventID  string
	RunID    string
	Step     int
	Severity string
	Kind     string
	Message  string
}

// Journal is the persistence sink a run drives as it steps forward.
type Journal interface {
	RecordStep(StepRecord) error
	RecordEvent(EventRecord) error
	Close() error
}
