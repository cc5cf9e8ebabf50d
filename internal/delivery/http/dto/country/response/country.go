package response

import "time"

type CountryResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Capital         *string   `json:"capital"`
	Region          *string   `json:"region"`
	Population      int64     `json:"population"`
	CurrencyCode    *string   `json:"currency_code"`
	ExchangeRate    *float64  `json:"exchange_rate"`
	EstimatedGDP    *float64  `json:"estimated_gdp"`
	FlagURL         *string   `json:"flag_url"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

type StatusResponse struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

type RefreshResponse struct {
	Message         string    `json:"message"`
	RunID           string    `json:"run_id"`
	Processed       int       `json:"countries_processed"`
	Created         int       `json:"created"`
	Updated         int       `json:"updated"`
	Skipped         int       `json:"skipped"`
	SummaryRendered bool      `json:"summary_rendered"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

type RefreshRunResponse struct {
	ID                 string    `json:"id"`
	Status             string    `json:"status"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
	FailedSource       *string   `json:"failed_source"`
	Error              *string   `json:"error"`
	CountriesProcessed int       `json:"countries_processed"`
	CountriesCreated   int       `json:"countries_created"`
	CountriesUpdated   int       `json:"countries_updated"`
	CountriesSkipped   int       `json:"countries_skipped"`
	SummaryRendered    bool      `json:"summary_rendered"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
