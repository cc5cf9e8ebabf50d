package handlers

import (
	"errors"
	"net/http"

	countryResponse "github.com/LavaJover/shvark-country-service/internal/delivery/http/dto/country/response"
	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleError maps domain errors onto the public {error, details} shape.
func (h *CountryHandler) handleError(c *gin.Context, err error) {
	var extErr *domain.ExternalUnavailableError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &extErr):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, countryResponse.ErrorResponse{
			Error:   "External data source unavailable",
			Details: "Could not fetch data from " + extErr.Source,
		})
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, countryResponse.ErrorResponse{
			Error:   "Validation failed",
			Details: validationErr.Fields,
		})
	case errors.Is(err, domain.ErrCountryNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, countryResponse.ErrorResponse{Error: "Country not found"})
	case errors.Is(err, domain.ErrSummaryNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, countryResponse.ErrorResponse{Error: "Summary image not found"})
	case errors.Is(err, domain.ErrCountryExists):
		c.AbortWithStatusJSON(http.StatusConflict, countryResponse.ErrorResponse{Error: "Country already exists"})
	default:
		h.logger.Error("unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, countryResponse.ErrorResponse{Error: "Internal server error"})
	}
}
