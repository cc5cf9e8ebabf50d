package mocks

import (
	"context"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock CountryDirectory
type CountryDirectory struct {
	mock.Mock
}

func (m *CountryDirectory) FetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawCountry), args.Error(1)
}

func (m *CountryDirectory) Name() string {
	return domain.SourceCountryDirectory
}

// Mock RateProvider
type RateProvider struct {
	mock.Mock
}

func (m *RateProvider) FetchRates(ctx context.Context) (domain.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RateTable), args.Error(1)
}

func (m *RateProvider) Name() string {
	return domain.SourceRateTable
}
