package handler

import (
	"errors"
	"net/http"
	"strconv"

	"ratedash/internal/domain"
	"ratedash/internal/trend"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultHistoryDays = 30
	defaultHorizonDays = 7
	maxHorizonDays     = 90
	maxHistoryDays     = 365
	minForecastHistory = 2
)

// GetForecast godoc
// @Summary      Forecast future rates for a pair
// @Description  Projects daily rates with a linear trend fit and returns the trend analysis
// @Tags         forecast
// @Produce      json
// @Param        pair  path   string  true   "Currency pair (e.g., EURUSD or EUR/USD)"
// @Param        days  query  int     false  "Forecast horizon in days (default 7, max 90)"  default(7)
// @Success      200  {object}  service.ForecastResult
// @Failure      400  {object}  map[string]string
// @Router       /api/forecast/{pair} [get]
func (h *Handler) GetForecast(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-forecast")
	defer span.End()

	from, to, err := domain.ParsePair(c.Param("pair"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("pair", from+"/"+to))

	horizon := defaultHorizonDays
	if d := c.Query("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > maxHorizonDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
			return
		}
		horizon = n
	}

	result, err := h.analytics.Forecast(ctx, from, to, defaultHistoryDays, horizon)
	if err != nil {
		if errors.Is(err, trend.ErrInvalidInput) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
