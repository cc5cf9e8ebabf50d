package countrydto

import "github.com/LavaJover/shvark-country-service/internal/domain"

// CountryInput is used for both direct create and update. The field tag
// names the attribute reported back in validation errors.
type CountryInput struct {
	Name         string   `field:"name" validate:"required"`
	Capital      *string  `field:"capital"`
	Region       *string  `field:"region"`
	Population   int64    `field:"population" validate:"required"`
	CurrencyCode string   `field:"currency_code" validate:"required"`
	ExchangeRate *float64 `field:"exchange_rate"`
	EstimatedGDP *float64 `field:"estimated_gdp"`
	FlagURL      *string  `field:"flag_url"`
}

type ListCountriesInput struct {
	Region   *string
	Currency *string
	Sort     string
}

func (in *ListCountriesInput) ToFilter() domain.CountryFilter {
	return domain.CountryFilter{
		Region:   in.Region,
		Currency: in.Currency,
		Sort:     domain.ParseCountrySort(in.Sort),
	}
}
