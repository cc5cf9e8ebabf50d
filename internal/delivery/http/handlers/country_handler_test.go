package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/sqlitetest"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/summary"
	"github.com/LavaJover/shvark-country-service/internal/usecase"
	countrydto "github.com/LavaJover/shvark-country-service/internal/usecase/dto/country"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRefreshUsecase struct {
	mock.Mock
}

func (m *mockRefreshUsecase) Refresh(ctx context.Context) (*countrydto.RefreshResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*countrydto.RefreshResult), args.Error(1)
}

type testServer struct {
	router    *gin.Engine
	countries *repository.DefaultCountryRepository
	store     *summary.MemoryStore
	refresh   *mockRefreshUsecase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := sqlitetest.Open(t)
	countries := repository.NewDefaultCountryRepository(db)
	store := summary.NewMemoryStore()
	refresh := new(mockRefreshUsecase)
	countryUc := usecase.NewDefaultCountryUsecase(countries, logger.NewPGRefreshRunLogger(db), store)

	handler := handlers.NewCountryHandler(countryUc, refresh, zap.NewNop())
	return &testServer{
		router:    handlers.NewRouter(handler, prometheus.NewRegistry(), nil, zap.NewNop()),
		countries: countries,
		store:     store,
		refresh:   refresh,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStatus_EmptyStore(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_countries":0,"last_refreshed_at":null}`, w.Body.String())
}

func TestCountryNotFound(t *testing.T) {
	s := newTestServer(t)
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := s.do(t, method, "/countries/Atlantis", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Country not found"}`, w.Body.String())
	}
}

func TestSummaryImage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/countries/image", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Summary image not found"}`, w.Body.String())

	require.NoError(t, s.store.Save(context.Background(), []byte("png-bytes")))
	w = s.do(t, http.MethodGet, "/countries/image", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestRefresh(t *testing.T) {
	t.Run("upstream unavailable", func(t *testing.T) {
		s := newTestServer(t)
		s.refresh.On("Refresh", mock.Anything).
			Return(nil, domain.NewExternalUnavailableError(domain.SourceRateTable, errors.New("timeout"))).Once()

		w := s.do(t, http.MethodPost, "/countries/refresh", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"External data source unavailable","details":"Could not fetch data from rate table"}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		s := newTestServer(t)
		s.refresh.On("Refresh", mock.Anything).Return(nil, errors.New("connection reset")).Once()

		w := s.do(t, http.MethodPost, "/countries/refresh", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		s := newTestServer(t)
		s.refresh.On("Refresh", mock.Anything).Return(&countrydto.RefreshResult{
			RunID:           "abc",
			Processed:       250,
			Created:         250,
			SummaryRendered: true,
			RefreshedAt:     time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		}, nil).Once()

		w := s.do(t, http.MethodPost, "/countries/refresh", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Countries refreshed successfully", body["message"])
		assert.Equal(t, float64(250), body["countries_processed"])
	})
}

func TestCreateUpdateDeleteCountry(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/countries", map[string]any{"capital": "Accra"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Validation failed","details":{"name":"is required","population":"is required","currency_code":"is required"}}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/countries", map[string]any{
		"name":          "Ghana",
		"population":    31072940,
		"currency_code": "GHS",
		"exchange_rate": 15.3456,
		"estimated_gdp": 3037555000.987,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	assert.Equal(t, "Ghana", created["name"])
	assert.Equal(t, 15.35, created["exchange_rate"])
	assert.Equal(t, 3037555001.0, created["estimated_gdp"])

	w = s.do(t, http.MethodPost, "/countries", map[string]any{"name": "ghana", "population": 1, "currency_code": "GHS"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Country already exists"}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/countries/GHANA", map[string]any{"name": "Ghana", "population": 32000000, "currency_code": "GHS"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)
	assert.Equal(t, float64(32000000), updated["population"])
	assert.Nil(t, updated["exchange_rate"])

	w = s.do(t, http.MethodGet, "/countries/ghana", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/countries/Ghana", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Country deleted successfully"}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/countries/Ghana", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCountries_Filters(t *testing.T) {
	s := newTestServer(t)
	region := "Africa"
	ngn, ghs := "NGN", "GHS"
	_, err := s.countries.UpsertCountries(context.Background(), []*domain.Country{
		{Name: "Nigeria", Population: 1, Region: &region, CurrencyCode: &ngn},
		{Name: "Ghana", Population: 1, Region: &region, CurrencyCode: &ghs},
	}, time.Now().UTC())
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/countries?region=africa&currency=ngn", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Nigeria", list[0]["name"])

	w = s.do(t, http.MethodGet, "/countries?region=Europe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListRefreshRuns(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/refresh/runs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/refresh/runs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
