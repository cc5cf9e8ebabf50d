package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	countrydto "github.com/LavaJover/shvark-country-service/internal/usecase/dto/country"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultRefreshRunsLimit = 20
	MaxRefreshRunsLimit     = 100
)

type CountryUsecase interface {
	ListCountries(ctx context.Context, input *countrydto.ListCountriesInput) ([]*countrydto.CountryOutput, error)
	GetCountry(ctx context.Context, name string) (*countrydto.CountryOutput, error)
	CreateCountry(ctx context.Context, input *countrydto.CountryInput) (*countrydto.CountryOutput, error)
	UpdateCountry(ctx context.Context, name string, input *countrydto.CountryInput) (*countrydto.CountryOutput, error)
	DeleteCountry(ctx context.Context, name string) error
	GetStatus(ctx context.Context) (*countrydto.StatusOutput, error)
	GetSummaryImage(ctx context.Context) ([]byte, error)
	ListRefreshRuns(ctx context.Context, limit int) ([]*countrydto.RefreshRunOutput, error)
}

type DefaultCountryUsecase struct {
	countries domain.CountryRepository
	runs      domain.RefreshRunRepository
	summaries domain.SummaryStore
	validate  *validator.Validate
	now       func() time.Time
}

func NewDefaultCountryUsecase(
	countries domain.CountryRepository,
	runs domain.RefreshRunRepository,
	summaries domain.SummaryStore,
) *DefaultCountryUsecase {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})

	return &DefaultCountryUsecase{
		countries: countries,
		runs:      runs,
		summaries: summaries,
		validate:  validate,
		now:       time.Now,
	}
}

func (uc *DefaultCountryUsecase) ListCountries(ctx context.Context, input *countrydto.ListCountriesInput) ([]*countrydto.CountryOutput, error) {
	if input == nil {
		input = &countrydto.ListCountriesInput{}
	}
	countries, err := uc.countries.ListCountries(ctx, input.ToFilter())
	if err != nil {
		return nil, err
	}

	out := make([]*countrydto.CountryOutput, 0, len(countries))
	for _, c := range countries {
		out = append(out, countrydto.ToCountryOutput(c))
	}
	return out, nil
}

func (uc *DefaultCountryUsecase) GetCountry(ctx context.Context, name string) (*countrydto.CountryOutput, error) {
	country, err := uc.countries.GetCountryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return countrydto.ToCountryOutput(country), nil
}

func (uc *DefaultCountryUsecase) CreateCountry(ctx context.Context, input *countrydto.CountryInput) (*countrydto.CountryOutput, error) {
	country, err := uc.toCountry(input)
	if err != nil {
		return nil, err
	}
	if err := uc.countries.CreateCountry(ctx, country); err != nil {
		return nil, err
	}
	return countrydto.ToCountryOutput(country), nil
}

func (uc *DefaultCountryUsecase) UpdateCountry(ctx context.Context, name string, input *countrydto.CountryInput) (*countrydto.CountryOutput, error) {
	country, err := uc.toCountry(input)
	if err != nil {
		return nil, err
	}
	if err := uc.countries.UpdateCountry(ctx, name, country); err != nil {
		return nil, err
	}
	return countrydto.ToCountryOutput(country), nil
}

func (uc *DefaultCountryUsecase) DeleteCountry(ctx context.Context, name string) error {
	return uc.countries.DeleteCountryByName(ctx, name)
}

func (uc *DefaultCountryUsecase) GetStatus(ctx context.Context) (*countrydto.StatusOutput, error) {
	status, err := uc.countries.GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &countrydto.StatusOutput{
		TotalCountries:  status.TotalCountries,
		LastRefreshedAt: status.LastRefreshedAt,
	}, nil
}

func (uc *DefaultCountryUsecase) GetSummaryImage(ctx context.Context) ([]byte, error) {
	return uc.summaries.Load(ctx)
}

// ListRefreshRuns clamps limit into [1, MaxRefreshRunsLimit]; non-positive means the default.
func (uc *DefaultCountryUsecase) ListRefreshRuns(ctx context.Context, limit int) ([]*countrydto.RefreshRunOutput, error) {
	if limit <= 0 {
		limit = DefaultRefreshRunsLimit
	}
	if limit > MaxRefreshRunsLimit {
		limit = MaxRefreshRunsLimit
	}

	runs, err := uc.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*countrydto.RefreshRunOutput, 0, len(runs))
	for _, run := range runs {
		out = append(out, countrydto.ToRefreshRunOutput(run))
	}
	return out, nil
}

func (uc *DefaultCountryUsecase) toCountry(input *countrydto.CountryInput) (*domain.Country, error) {
	if input == nil {
		input = &countrydto.CountryInput{}
	}
	normalized := *input
	normalized.Name = strings.TrimSpace(input.Name)
	normalized.CurrencyCode = strings.TrimSpace(input.CurrencyCode)

	if err := uc.validate.Struct(&normalized); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = "is required"
		}
		return nil, &domain.ValidationError{Fields: fields}
	}

	currency := normalized.CurrencyCode
	country := &domain.Country{
		Name:            normalized.Name,
		Capital:         normalized.Capital,
		Region:          normalized.Region,
		Population:      normalized.Population,
		CurrencyCode:    &currency,
		ExchangeRate:    normalized.ExchangeRate,
		EstimatedGDP:    normalized.EstimatedGDP,
		FlagURL:         normalized.FlagURL,
		LastRefreshedAt: uc.now().UTC(),
	}
	if country.ExchangeRate == nil {
		country.EstimatedGDP = nil
	}
	return country, nil
}
