package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/domain/mocks"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/sqlitetest"
	"github.com/LavaJover/shvark-country-service/internal/usecase"
	countrydto "github.com/LavaJover/shvark-country-service/internal/usecase/dto/country"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func newCountryUsecase(t *testing.T) (*usecase.DefaultCountryUsecase, *repository.DefaultCountryRepository, *mocks.RefreshRunRepository, *mocks.SummaryStore) {
	t.Helper()
	countries := repository.NewDefaultCountryRepository(sqlitetest.Open(t))
	runs := new(mocks.RefreshRunRepository)
	store := new(mocks.SummaryStore)
	return usecase.NewDefaultCountryUsecase(countries, runs, store), countries, runs, store
}

func TestCreateCountry_Validation(t *testing.T) {
	uc, _, _, _ := newCountryUsecase(t)

	tests := []struct {
		name  string
		input *countrydto.CountryInput
		want  map[string]string
	}{
		{
			name:  "everything missing",
			input: &countrydto.CountryInput{},
			want: map[string]string{
				"name":          "is required",
				"population":    "is required",
				"currency_code": "is required",
			},
		},
		{
			name:  "blank name and currency",
			input: &countrydto.CountryInput{Name: "  ", Population: 5, CurrencyCode: " "},
			want: map[string]string{
				"name":          "is required",
				"currency_code": "is required",
			},
		},
		{
			name:  "zero population",
			input: &countrydto.CountryInput{Name: "Ghana", CurrencyCode: "GHS"},
			want:  map[string]string{"population": "is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateCountry(context.Background(), tt.input)

			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.want, validationErr.Fields)
		})
	}
}

func TestCreateCountry_ConflictAndGDPInvariant(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newCountryUsecase(t)

	out, err := uc.CreateCountry(ctx, &countrydto.CountryInput{
		Name:         "Ghana",
		Population:   31072940,
		CurrencyCode: "GHS",
		EstimatedGDP: floatPtr(123.456),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Nil(t, out.EstimatedGDP, "estimated gdp is dropped without an exchange rate")
	assert.WithinDuration(t, time.Now(), out.LastRefreshedAt, time.Minute)

	_, err = uc.CreateCountry(ctx, &countrydto.CountryInput{Name: "GHANA", Population: 1, CurrencyCode: "GHS"})
	assert.ErrorIs(t, err, domain.ErrCountryExists)
}

func TestUpdateCountry(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newCountryUsecase(t)

	_, err := uc.UpdateCountry(ctx, "Atlantis", &countrydto.CountryInput{Name: "Atlantis", Population: 1, CurrencyCode: "ATL"})
	assert.ErrorIs(t, err, domain.ErrCountryNotFound)

	_, err = uc.CreateCountry(ctx, &countrydto.CountryInput{Name: "Ghana", Population: 1, CurrencyCode: "GHS"})
	require.NoError(t, err)

	out, err := uc.UpdateCountry(ctx, "ghana", &countrydto.CountryInput{
		Name:         "Ghana",
		Population:   2,
		CurrencyCode: "GHS",
		ExchangeRate: floatPtr(15.3456),
		EstimatedGDP: floatPtr(99.96),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Population)
	assert.InDelta(t, 15.35, *out.ExchangeRate, 1e-9)
	assert.InDelta(t, 100.0, *out.EstimatedGDP, 1e-9)
}

func TestGetAndDeleteCountry(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newCountryUsecase(t)

	_, err := uc.GetCountry(ctx, "Nigeria")
	assert.ErrorIs(t, err, domain.ErrCountryNotFound)

	_, err = uc.CreateCountry(ctx, &countrydto.CountryInput{Name: "Nigeria", Population: 1, CurrencyCode: "NGN", Region: strPtr("Africa")})
	require.NoError(t, err)

	got, err := uc.GetCountry(ctx, "nIgErIa")
	require.NoError(t, err)
	assert.Equal(t, "Nigeria", got.Name)

	require.NoError(t, uc.DeleteCountry(ctx, "NIGERIA"))
	assert.ErrorIs(t, uc.DeleteCountry(ctx, "nigeria"), domain.ErrCountryNotFound)
}

func TestListCountries_RoundsOutput(t *testing.T) {
	ctx := context.Background()
	uc, countries, _, _ := newCountryUsecase(t)

	_, err := countries.UpsertCountries(ctx, []*domain.Country{
		{Name: "Nigeria", Population: 10, Region: strPtr("Africa"), CurrencyCode: strPtr("NGN"), ExchangeRate: floatPtr(1600.2345), EstimatedGDP: floatPtr(9999.96)},
		{Name: "Ghana", Population: 10, Region: strPtr("Africa"), CurrencyCode: strPtr("GHS"), ExchangeRate: floatPtr(15.344), EstimatedGDP: floatPtr(20000.04)},
	}, time.Now().UTC())
	require.NoError(t, err)

	out, err := uc.ListCountries(ctx, &countrydto.ListCountriesInput{Region: strPtr("AFRICA"), Sort: "gdp_desc"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ghana", out[0].Name)
	assert.InDelta(t, 15.34, *out[0].ExchangeRate, 1e-9)
	assert.InDelta(t, 20000.0, *out[0].EstimatedGDP, 1e-9)
	assert.InDelta(t, 1600.23, *out[1].ExchangeRate, 1e-9)
	assert.InDelta(t, 10000.0, *out[1].EstimatedGDP, 1e-9)

	all, err := uc.ListCountries(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ghana", all[0].Name)
}

func TestGetStatus_EmptyStore(t *testing.T) {
	uc, _, _, _ := newCountryUsecase(t)

	status, err := uc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.TotalCountries)
	assert.Nil(t, status.LastRefreshedAt)
}

func TestGetSummaryImage(t *testing.T) {
	ctx := context.Background()
	uc, _, _, store := newCountryUsecase(t)

	store.On("Load", mock.Anything).Return(nil, domain.ErrSummaryNotFound).Once()
	_, err := uc.GetSummaryImage(ctx)
	assert.ErrorIs(t, err, domain.ErrSummaryNotFound)

	store.On("Load", mock.Anything).Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()
	img, err := uc.GetSummaryImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img)

	store.AssertExpectations(t)
}

func TestListRefreshRuns_Limits(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "default", requested: 0, want: usecase.DefaultRefreshRunsLimit},
		{name: "negative", requested: -3, want: usecase.DefaultRefreshRunsLimit},
		{name: "within range", requested: 7, want: 7},
		{name: "clamped", requested: 1000, want: usecase.MaxRefreshRunsLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, runs, _ := newCountryUsecase(t)
			runs.On("ListRuns", mock.Anything, tt.want).Return([]*domain.RefreshRun{
				{ID: "abc", Status: domain.RefreshRunSucceeded},
			}, nil).Once()

			out, err := uc.ListRefreshRuns(context.Background(), tt.requested)
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.Equal(t, "succeeded", out[0].Status)
			runs.AssertExpectations(t)
		})
	}
}
