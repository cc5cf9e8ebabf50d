package domain

import (
	"context"
	"time"
)

type RefreshRunStatus string

const (
	RefreshRunSucceeded RefreshRunStatus = "succeeded"
	RefreshRunFailed    RefreshRunStatus = "failed"
)

type RefreshRun struct {
	ID                 string
	StartedAt          time.Time
	FinishedAt         time.Time
	Status             RefreshRunStatus
	FailedSource       *string
	Error              *string
	CountriesProcessed int
	CountriesCreated   int
	CountriesUpdated   int
	CountriesSkipped   int
	SummaryRendered    bool
}

type RefreshRunRepository interface {
	SaveRun(ctx context.Context, run *RefreshRun) error
	ListRuns(ctx context.Context, limit int) ([]*RefreshRun, error)
}
