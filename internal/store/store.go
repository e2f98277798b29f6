// Package store persists collection run history.
package store

import (
	"context"
	"time"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

// RunResult carries the outcome of a finished run. Source, when non-empty,
// replaces the placeholder recorded at run creation.
type RunResult struct {
	Status     model.RunStatus
	Source     string
	RateTime   *time.Time
	Currencies int
	Files      int
	Err        error
}

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, source string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result RunResult) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
