package model

import "time"

// RunStatus is the lifecycle state of one extraction run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one extraction pass in the run-history store.
type Run struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"` // URL or file path the document came from
	Status     RunStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	RateTime   *time.Time `json:"rate_time,omitempty"` // resolved document timestamp
	Currencies int        `json:"currencies"`
	Files      int        `json:"files"` // documents processed, for batch runs
	Error      string     `json:"error,omitempty"`
}
