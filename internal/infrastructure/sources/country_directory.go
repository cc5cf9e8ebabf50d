package sources

import (
	"context"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

type countryCurrency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Population accepts any JSON number and is truncated on conversion.
type countryEntry struct {
	Name       string            `json:"name"`
	Capital    string            `json:"capital"`
	Region     string            `json:"region"`
	Population float64           `json:"population"`
	Flag       string            `json:"flag"`
	Currencies []countryCurrency `json:"currencies"`
}

// RestCountriesDirectory reads the restcountries v2 style country list.
type RestCountriesDirectory struct {
	url    string
	client *http.Client
}

func NewRestCountriesDirectory(url string, timeout time.Duration) *RestCountriesDirectory {
	return &RestCountriesDirectory{
		url:    url,
		client: newHTTPClient(timeout),
	}
}

func (d *RestCountriesDirectory) Name() string {
	return domain.SourceCountryDirectory
}

func (d *RestCountriesDirectory) FetchCountries(ctx context.Context) ([]domain.RawCountry, error) {
	var entries []countryEntry
	if err := getJSON(ctx, d.client, d.url, &entries); err != nil {
		return nil, domain.NewExternalUnavailableError(domain.SourceCountryDirectory, err)
	}

	countries := make([]domain.RawCountry, len(entries))
	for i, entry := range entries {
		currencies := make([]domain.RawCurrency, len(entry.Currencies))
		for j, currency := range entry.Currencies {
			currencies[j] = domain.RawCurrency{
				Code:   currency.Code,
				Name:   currency.Name,
				Symbol: currency.Symbol,
			}
		}
		countries[i] = domain.RawCountry{
			Name:       entry.Name,
			Capital:    entry.Capital,
			Region:     entry.Region,
			Population: int64(entry.Population),
			Flag:       entry.Flag,
			Currencies: currencies,
		}
	}

	return countries, nil
}
