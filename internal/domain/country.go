package domain

import (
	"context"
	"strings"
	"time"
)

type Country struct {
	ID              string
	Name            string
	Capital         *string
	Region          *string
	Population      int64
	CurrencyCode    *string
	ExchangeRate    *float64
	EstimatedGDP    *float64
	FlagURL         *string
	LastRefreshedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CountrySort string

const (
	SortByName    CountrySort = "name"
	SortByGDPDesc CountrySort = "gdp_desc"
	SortByGDPAsc  CountrySort = "gdp_asc"
)

// ParseCountrySort falls back to name ordering for anything it does not recognise.
func ParseCountrySort(raw string) CountrySort {
	switch CountrySort(strings.ToLower(strings.TrimSpace(raw))) {
	case SortByGDPDesc:
		return SortByGDPDesc
	case SortByGDPAsc:
		return SortByGDPAsc
	default:
		return SortByName
	}
}

type CountryFilter struct {
	Region   *string
	Currency *string
	Sort     CountrySort
}

type CountryStatus struct {
	TotalCountries  int64
	LastRefreshedAt *time.Time
}

type UpsertStats struct {
	Created int
	Updated int
}

type CountryRepository interface {
	UpsertCountries(ctx context.Context, countries []*Country, refreshedAt time.Time) (*UpsertStats, error)
	CreateCountry(ctx context.Context, country *Country) error
	UpdateCountry(ctx context.Context, name string, country *Country) error
	GetCountryByName(ctx context.Context, name string) (*Country, error)
	DeleteCountryByName(ctx context.Context, name string) error
	ListCountries(ctx context.Context, filter CountryFilter) ([]*Country, error)
	TopCountriesByGDP(ctx context.Context, limit int) ([]*Country, error)
	CountCountries(ctx context.Context) (int64, error)
	GetStatus(ctx context.Context) (*CountryStatus, error)
}

// NameKey is the normalised form used for case-insensitive identity.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
