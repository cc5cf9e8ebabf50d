package countrydto

import (
	"math"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

type CountryOutput struct {
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
}

// ToCountryOutput rounds exchange rate to 2 and estimated GDP to 1 decimal place.
func ToCountryOutput(c *domain.Country) *CountryOutput {
	return &CountryOutput{
		ID:              c.ID,
		Name:            c.Name,
		Capital:         c.Capital,
		Region:          c.Region,
		Population:      c.Population,
		CurrencyCode:    c.CurrencyCode,
		ExchangeRate:    roundPtr(c.ExchangeRate, 2),
		EstimatedGDP:    roundPtr(c.EstimatedGDP, 1),
		FlagURL:         c.FlagURL,
		LastRefreshedAt: c.LastRefreshedAt,
	}
}

func roundPtr(v *float64, places int) *float64 {
	if v == nil {
		return nil
	}
	p := math.Pow(10, float64(places))
	r := math.Round(*v*p) / p
	return &r
}

type StatusOutput struct {
	TotalCountries  int64
	LastRefreshedAt *time.Time
}

type RefreshResult struct {
	RunID           string
	Processed       int
	Created         int
	Updated         int
	Skipped         int
	SummaryRendered bool
	RefreshedAt     time.Time
}

type RefreshRunOutput struct {
	ID                 string
	Status             string
	StartedAt          time.Time
	FinishedAt         time.Time
	FailedSource       *string
	Error              *string
	CountriesProcessed int
	CountriesCreated   int
	CountriesUpdated   int
	CountriesSkipped   int
	SummaryRendered    bool
}

func ToRefreshRunOutput(run *domain.RefreshRun) *RefreshRunOutput {
	return &RefreshRunOutput{
		ID:                 run.ID,
		Status:             string(run.Status),
		StartedAt:          run.StartedAt,
		FinishedAt:         run.FinishedAt,
		FailedSource:       run.FailedSource,
		Error:              run.Error,
		CountriesProcessed: run.CountriesProcessed,
		CountriesCreated:   run.CountriesCreated,
		CountriesUpdated:   run.CountriesUpdated,
		CountriesSkipped:   run.CountriesSkipped,
		SummaryRendered:    run.SummaryRendered,
	}
}
