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

// GetHistory godoc
// @Summary      Rate history with statistics
// @Description  Returns the stored daily rates for a pair plus average, min, max, volatility, and any anomalous dates
// @Tags         rates
// @Produce      json
// @Param        pair  path   string  true   "Currency pair (e.g., EURUSD or EUR/USD)"
// @Param        days  query  int     false  "History window in days (default 30, max 365)"  default(30)
// @Success      200  {object}  service.StatisticsResult
// @Failure      400  {object}  map[string]string
// @Router       /api/rates/{pair}/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	from, to, err := domain.ParsePair(c.Param("pair"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("pair", from+"/"+to))

	days := defaultHistoryDays
	if d := c.Query("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < minForecastHistory || n > maxHistoryDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 2 and 365"})
			return
		}
		days = n
	}

	result, err := h.analytics.Statistics(ctx, from, to, days)
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
