package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-country-service/internal/config"
	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/sources"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/summary"
	"github.com/LavaJover/shvark-country-service/internal/usecase"
)

type UseCases struct {
	CountryUsecase usecase.CountryUsecase
	RefreshUsecase usecase.RefreshUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	directory := sources.NewRestCountriesDirectory(cfg.Sources.CountriesURL, cfg.Sources.Timeout)
	rates := sources.NewOpenExchangeRateTable(cfg.Sources.RatesURL, cfg.Sources.Timeout)

	renderer := summary.NewRenderer(
		deps.Repositories.CountryRepo,
		deps.SummaryStore,
		cfg.Summary.FontPath,
		cfg.Summary.FontSize,
		deps.Logger,
	)

	// A typed nil would make the usecase think a publisher is configured.
	var eventPublisher domain.RefreshEventPublisher
	if deps.Publisher != nil {
		eventPublisher = deps.Publisher
	}

	refreshUsecase, err := usecase.NewDefaultRefreshUsecase(
		directory,
		rates,
		deps.Repositories.CountryRepo,
		deps.Repositories.RefreshRunRepo,
		renderer,
		newMultiplier(cfg.Refresh.GDPMultiplier),
		eventPublisher,
		deps.Metrics,
		deps.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("refresh usecase: %w", err)
	}

	countryUsecase := usecase.NewDefaultCountryUsecase(
		deps.Repositories.CountryRepo,
		deps.Repositories.RefreshRunRepo,
		deps.SummaryStore,
	)

	return &UseCases{
		CountryUsecase: countryUsecase,
		RefreshUsecase: refreshUsecase,
	}, nil
}

func newMultiplier(cfg config.GDPMultiplier) domain.GDPMultiplier {
	if cfg.Mode == "random" {
		return domain.RandomMultiplier{Min: cfg.Min, Max: cfg.Max}
	}
	return domain.FixedMultiplier(cfg.Value)
}
