package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
)

type rateTableResponse struct {
	Result   string             `json:"result"`
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// OpenExchangeRateTable reads an open.er-api style {rates: {CODE: rate}} table.
type OpenExchangeRateTable struct {
	url    string
	client *http.Client
}

func NewOpenExchangeRateTable(url string, timeout time.Duration) *OpenExchangeRateTable {
	return &OpenExchangeRateTable{
		url:    url,
		client: newHTTPClient(timeout),
	}
}

func (t *OpenExchangeRateTable) Name() string {
	return domain.SourceRateTable
}

func (t *OpenExchangeRateTable) FetchRates(ctx context.Context) (domain.RateTable, error) {
	var response rateTableResponse
	if err := getJSON(ctx, t.client, t.url, &response); err != nil {
		return nil, domain.NewExternalUnavailableError(domain.SourceRateTable, err)
	}
	if response.Result == "error" {
		return nil, domain.NewExternalUnavailableError(domain.SourceRateTable, fmt.Errorf("rate table reported an error result"))
	}

	rates := make(domain.RateTable, len(response.Rates))
	for code, rate := range response.Rates {
		rates[code] = rate
	}

	return rates, nil
}
