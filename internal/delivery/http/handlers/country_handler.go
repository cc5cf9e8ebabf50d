package handlers

import (
	"net/http"
	"strconv"

	countryRequest "github.com/LavaJover/shvark-country-service/internal/delivery/http/dto/country/request"
	countryResponse "github.com/LavaJover/shvark-country-service/internal/delivery/http/dto/country/response"
	"github.com/LavaJover/shvark-country-service/internal/usecase"
	countrydto "github.com/LavaJover/shvark-country-service/internal/usecase/dto/country"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CountryHandler struct {
	countryUc usecase.CountryUsecase
	refreshUc usecase.RefreshUsecase
	logger    *zap.Logger
}

func NewCountryHandler(countryUc usecase.CountryUsecase, refreshUc usecase.RefreshUsecase, logger *zap.Logger) *CountryHandler {
	return &CountryHandler{
		countryUc: countryUc,
		refreshUc: refreshUc,
		logger:    logger,
	}
}

func (h *CountryHandler) RegisterRoutes(r gin.IRouter) {
	countries := r.Group("/countries")
	countries.POST("/refresh", h.RefreshCountries)
	countries.GET("", h.ListCountries)
	countries.POST("", h.CreateCountry)
	countries.GET("/image", h.GetSummaryImage)
	countries.GET("/:name", h.GetCountry)
	countries.PUT("/:name", h.UpdateCountry)
	countries.DELETE("/:name", h.DeleteCountry)

	r.GET("/status", h.GetStatus)
	r.GET("/refresh/runs", h.ListRefreshRuns)
}

func (h *CountryHandler) RefreshCountries(c *gin.Context) {
	result, err := h.refreshUc.Refresh(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, countryResponse.RefreshResponse{
		Message:         "Countries refreshed successfully",
		RunID:           result.RunID,
		Processed:       result.Processed,
		Created:         result.Created,
		Updated:         result.Updated,
		Skipped:         result.Skipped,
		SummaryRendered: result.SummaryRendered,
		LastRefreshedAt: result.RefreshedAt,
	})
}

func (h *CountryHandler) ListCountries(c *gin.Context) {
	input := &countrydto.ListCountriesInput{Sort: c.Query("sort")}
	if region, ok := c.GetQuery("region"); ok && region != "" {
		input.Region = &region
	}
	if currency, ok := c.GetQuery("currency"); ok && currency != "" {
		input.Currency = &currency
	}

	countries, err := h.countryUc.ListCountries(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]countryResponse.CountryResponse, 0, len(countries))
	for _, country := range countries {
		resp = append(resp, toCountryResponse(country))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CountryHandler) GetCountry(c *gin.Context) {
	country, err := h.countryUc.GetCountry(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCountryResponse(country))
}

func (h *CountryHandler) CreateCountry(c *gin.Context) {
	var req countryRequest.CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, countryResponse.ErrorResponse{
			Error:   "Validation failed",
			Details: gin.H{"body": "must be a valid JSON object"},
		})
		return
	}

	country, err := h.countryUc.CreateCountry(c.Request.Context(), toCountryInput(&req))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCountryResponse(country))
}

func (h *CountryHandler) UpdateCountry(c *gin.Context) {
	var req countryRequest.CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, countryResponse.ErrorResponse{
			Error:   "Validation failed",
			Details: gin.H{"body": "must be a valid JSON object"},
		})
		return
	}

	country, err := h.countryUc.UpdateCountry(c.Request.Context(), c.Param("name"), toCountryInput(&req))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCountryResponse(country))
}

func (h *CountryHandler) DeleteCountry(c *gin.Context) {
	if err := h.countryUc.DeleteCountry(c.Request.Context(), c.Param("name")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, countryResponse.MessageResponse{Message: "Country deleted successfully"})
}

func (h *CountryHandler) GetStatus(c *gin.Context) {
	status, err := h.countryUc.GetStatus(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, countryResponse.StatusResponse{
		TotalCountries:  status.TotalCountries,
		LastRefreshedAt: status.LastRefreshedAt,
	})
}

func (h *CountryHandler) GetSummaryImage(c *gin.Context) {
	image, err := h.countryUc.GetSummaryImage(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", image)
}

func (h *CountryHandler) ListRefreshRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, countryResponse.ErrorResponse{
				Error:   "Validation failed",
				Details: gin.H{"limit": "must be an integer"},
			})
			return
		}
		limit = parsed
	}

	runs, err := h.countryUc.ListRefreshRuns(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]countryResponse.RefreshRunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, countryResponse.RefreshRunResponse{
			ID:                 run.ID,
			Status:             run.Status,
			StartedAt:          run.StartedAt,
			FinishedAt:         run.FinishedAt,
			FailedSource:       run.FailedSource,
			Error:              run.Error,
			CountriesProcessed: run.CountriesProcessed,
			CountriesCreated:   run.CountriesCreated,
			CountriesUpdated:   run.CountriesUpdated,
			CountriesSkipped:   run.CountriesSkipped,
			SummaryRendered:    run.SummaryRendered,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func toCountryInput(req *countryRequest.CountryRequest) *countrydto.CountryInput {
	return &countrydto.CountryInput{
		Name:         req.Name,
		Capital:      req.Capital,
		Region:       req.Region,
		Population:   req.Population,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: req.ExchangeRate,
		EstimatedGDP: req.EstimatedGDP,
		FlagURL:      req.FlagURL,
	}
}

func toCountryResponse(country *countrydto.CountryOutput) countryResponse.CountryResponse {
	return countryResponse.CountryResponse{
		ID:              country.ID,
		Name:            country.Name,
		Capital:         country.Capital,
		Region:          country.Region,
		Population:      country.Population,
		CurrencyCode:    country.CurrencyCode,
		ExchangeRate:    country.ExchangeRate,
		EstimatedGDP:    country.EstimatedGDP,
		FlagURL:         country.FlagURL,
		LastRefreshedAt: country.LastRefreshedAt,
	}
}
