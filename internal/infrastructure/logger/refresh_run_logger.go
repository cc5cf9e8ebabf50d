package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"gorm.io/gorm"
)

type RefreshRunEvent struct {
	ID                 string `gorm:"primaryKey;size:32"`
	StartedAt          time.Time
	FinishedAt         time.Time `gorm:"index"`
	Status             string    `gorm:"size:16"`
	FailedSource       *string   `gorm:"size:64"`
	Error              *string
	CountriesProcessed int
	CountriesCreated   int
	CountriesUpdated   int
	CountriesSkipped   int
	SummaryRendered    bool
}

func (RefreshRunEvent) TableName() string {
	return "refresh_runs"
}

// PGRefreshRunLogger journals every refresh attempt.
type PGRefreshRunLogger struct {
	db *gorm.DB
}

func NewPGRefreshRunLogger(db *gorm.DB) *PGRefreshRunLogger {
	return &PGRefreshRunLogger{db: db}
}

func (l *PGRefreshRunLogger) SaveRun(ctx context.Context, run *domain.RefreshRun) error {
	event := RefreshRunEvent{
		ID:                 run.ID,
		StartedAt:          run.StartedAt,
		FinishedAt:         run.FinishedAt,
		Status:             string(run.Status),
		FailedSource:       run.FailedSource,
		Error:              run.Error,
		CountriesProcessed: run.CountriesProcessed,
		CountriesCreated:   run.CountriesCreated,
		CountriesUpdated:   run.CountriesUpdated,
		CountriesSkipped:   run.CountriesSkipped,
		SummaryRendered:    run.SummaryRendered,
	}
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGRefreshRunLogger) ListRuns(ctx context.Context, limit int) ([]*domain.RefreshRun, error) {
	var events []RefreshRunEvent
	if err := l.db.WithContext(ctx).Order("finished_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	runs := make([]*domain.RefreshRun, len(events))
	for i, event := range events {
		runs[i] = &domain.RefreshRun{
			ID:                 event.ID,
			StartedAt:          event.StartedAt,
			FinishedAt:         event.FinishedAt,
			Status:             domain.RefreshRunStatus(event.Status),
			FailedSource:       event.FailedSource,
			Error:              event.Error,
			CountriesProcessed: event.CountriesProcessed,
			CountriesCreated:   event.CountriesCreated,
			CountriesUpdated:   event.CountriesUpdated,
			CountriesSkipped:   event.CountriesSkipped,
			SummaryRendered:    event.SummaryRendered,
		}
	}

	return runs, nil
}
