package request

type CountryRequest struct {
	Name         string   `json:"name"`
	Capital      *string  `json:"capital"`
	Region       *string  `json:"region"`
	Population   int64    `json:"population"`
	CurrencyCode string   `json:"currency_code"`
	ExchangeRate *float64 `json:"exchange_rate"`
	EstimatedGDP *float64 `json:"estimated_gdp"`
	FlagURL      *string  `json:"flag_url"`
}
