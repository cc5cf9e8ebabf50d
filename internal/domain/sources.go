package domain

import "context"

type RawCurrency struct {
	Code   string
	Name   string
	Symbol string
}

type RawCountry struct {
	Name       string
	Capital    string
	Region     string
	Population int64
	Flag       string
	Currencies []RawCurrency
}

// RateTable maps currency code to its rate against the table base currency.
type RateTable map[string]float64

type CountryDirectory interface {
	FetchCountries(ctx context.Context) ([]RawCountry, error)
	Name() string
}

type RateProvider interface {
	FetchRates(ctx context.Context) (RateTable, error)
	Name() string
}
