package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	countrydto "github.com/LavaJover/shvark-country-service/internal/usecase/dto/country"
	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

const refreshStoreFailure = "failed to store countries"

type RefreshUsecase interface {
	Refresh(ctx context.Context) (*countrydto.RefreshResult, error)
}

// RefreshMetrics is satisfied by metrics.CountryMetrics.
type RefreshMetrics interface {
	RecordRefreshSucceeded(durationSeconds float64, created, updated, skipped int)
	RecordRefreshFailed(durationSeconds float64, source string)
	RecordRenderFailure()
	RecordPublishFailure()
	SetCountriesStored(total int64)
}

type DefaultRefreshUsecase struct {
	directory  domain.CountryDirectory
	rates      domain.RateProvider
	countries  domain.CountryRepository
	runs       domain.RefreshRunRepository
	renderer   domain.SummaryRenderer
	multiplier domain.GDPMultiplier
	publisher  domain.RefreshEventPublisher
	metrics    RefreshMetrics
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewDefaultRefreshUsecase wires the refresh pipeline. publisher and metrics may be nil.
func NewDefaultRefreshUsecase(
	directory domain.CountryDirectory,
	rates domain.RateProvider,
	countries domain.CountryRepository,
	runs domain.RefreshRunRepository,
	renderer domain.SummaryRenderer,
	multiplier domain.GDPMultiplier,
	publisher domain.RefreshEventPublisher,
	metrics RefreshMetrics,
	logger *zap.Logger,
) (*DefaultRefreshUsecase, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	return &DefaultRefreshUsecase{
		directory:  directory,
		rates:      rates,
		countries:  countries,
		runs:       runs,
		renderer:   renderer,
		multiplier: multiplier,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		newID:      idGenerator,
	}, nil
}

func (uc *DefaultRefreshUsecase) Refresh(ctx context.Context) (*countrydto.RefreshResult, error) {
	run := &domain.RefreshRun{
		ID:        uc.newID(),
		StartedAt: uc.now().UTC(),
	}
	log := uc.logger.With(zap.String("run_id", run.ID))

	rawCountries, err := uc.directory.FetchCountries(ctx)
	if err != nil {
		return nil, uc.fail(ctx, run, err)
	}
	rates, err := uc.rates.FetchRates(ctx)
	if err != nil {
		return nil, uc.fail(ctx, run, err)
	}

	refreshedAt := uc.now().UTC()
	records, skipped := uc.buildRecords(rawCountries, rates)

	stats, err := uc.countries.UpsertCountries(ctx, records, refreshedAt)
	if err != nil {
		return nil, uc.fail(ctx, run, fmt.Errorf("failed to upsert countries: %w", err))
	}

	run.Status = domain.RefreshRunSucceeded
	run.CountriesProcessed = len(records)
	run.CountriesCreated = stats.Created
	run.CountriesUpdated = stats.Updated
	run.CountriesSkipped = skipped

	// Data is committed at this point, nothing below may fail the refresh
	// and a caller that went away must not cancel the follow-ups.
	ctx = context.WithoutCancel(ctx)
	run.SummaryRendered = true
	if err := uc.renderer.Render(ctx); err != nil {
		run.SummaryRendered = false
		log.Error("failed to render summary image", zap.Error(err))
		if uc.metrics != nil {
			uc.metrics.RecordRenderFailure()
		}
	}

	run.FinishedAt = uc.now().UTC()
	result := &countrydto.RefreshResult{
		RunID:           run.ID,
		Processed:       run.CountriesProcessed,
		Created:         run.CountriesCreated,
		Updated:         run.CountriesUpdated,
		Skipped:         run.CountriesSkipped,
		SummaryRendered: run.SummaryRendered,
		RefreshedAt:     refreshedAt,
	}

	uc.publish(ctx, log, result)
	uc.saveRun(ctx, log, run)

	if uc.metrics != nil {
		uc.metrics.RecordRefreshSucceeded(run.FinishedAt.Sub(run.StartedAt).Seconds(), stats.Created, stats.Updated, skipped)
		if total, err := uc.countries.CountCountries(ctx); err == nil {
			uc.metrics.SetCountriesStored(total)
		}
	}

	log.Info("countries refreshed",
		zap.Int("processed", result.Processed),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Bool("summary_rendered", result.SummaryRendered),
	)

	return result, nil
}

// buildRecords derives stored records from the upstream payload. Entries
// without a name are skipped; repeated names keep the last entry.
func (uc *DefaultRefreshUsecase) buildRecords(raw []domain.RawCountry, rates domain.RateTable) ([]*domain.Country, int) {
	skipped := 0
	index := make(map[string]int, len(raw))
	records := make([]*domain.Country, 0, len(raw))

	for _, entry := range raw {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			skipped++
			continue
		}

		country := &domain.Country{
			Name:       name,
			Capital:    optionalString(entry.Capital),
			Region:     optionalString(entry.Region),
			Population: entry.Population,
			FlagURL:    optionalString(entry.Flag),
		}
		if len(entry.Currencies) > 0 {
			country.CurrencyCode = optionalString(entry.Currencies[0].Code)
		}
		if country.CurrencyCode != nil {
			if rate, ok := rates[*country.CurrencyCode]; ok {
				country.ExchangeRate = &rate
			}
		}
		country.EstimatedGDP = domain.EstimateGDP(country.Population, country.ExchangeRate, uc.multiplier)

		key := domain.NameKey(name)
		if i, ok := index[key]; ok {
			records[i] = country
			continue
		}
		index[key] = len(records)
		records = append(records, country)
	}

	return records, skipped
}

func (uc *DefaultRefreshUsecase) fail(ctx context.Context, run *domain.RefreshRun, err error) error {
	run.Status = domain.RefreshRunFailed
	run.FinishedAt = uc.now().UTC()

	// The journal is public, the full error only goes to the log.
	reason := refreshStoreFailure
	var source string
	var extErr *domain.ExternalUnavailableError
	if errors.As(err, &extErr) {
		source = extErr.Source
		run.FailedSource = &source
		reason = source + " unavailable"
	}
	run.Error = &reason

	log := uc.logger.With(zap.String("run_id", run.ID))
	log.Error("refresh failed", zap.String("source", source), zap.Error(err))

	uc.saveRun(context.WithoutCancel(ctx), log, run)
	if uc.metrics != nil {
		uc.metrics.RecordRefreshFailed(run.FinishedAt.Sub(run.StartedAt).Seconds(), source)
	}
	return err
}

func (uc *DefaultRefreshUsecase) saveRun(ctx context.Context, log *zap.Logger, run *domain.RefreshRun) {
	if uc.runs == nil {
		return
	}
	if err := uc.runs.SaveRun(ctx, run); err != nil {
		log.Warn("failed to save refresh run", zap.Error(err))
	}
}

func (uc *DefaultRefreshUsecase) publish(ctx context.Context, log *zap.Logger, result *countrydto.RefreshResult) {
	if uc.publisher == nil {
		return
	}
	event := domain.RefreshEvent{
		RunID:           result.RunID,
		Processed:       result.Processed,
		Created:         result.Created,
		Updated:         result.Updated,
		Skipped:         result.Skipped,
		SummaryRendered: result.SummaryRendered,
		RefreshedAt:     result.RefreshedAt,
	}
	if err := uc.publisher.PublishRefresh(ctx, event); err != nil {
		log.Warn("failed to publish refresh event", zap.Error(err))
		if uc.metrics != nil {
			uc.metrics.RecordPublishFailure()
		}
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
