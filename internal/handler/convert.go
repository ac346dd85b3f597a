package handler

import (
	"net/http"
	"strconv"
	"strings"

	"ratedash/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Convert godoc
// @Summary      Convert an amount between currencies
// @Description  Converts amount from one currency to another at the current rate and records the conversion
// @Tags         conversions
// @Produce      json
// @Param        from    query  string  true  "Source currency code (e.g., EUR)"
// @Param        to      query  string  true  "Target currency code (e.g., USD)"
// @Param        amount  query  number  true  "Amount to convert"
// @Success      200  {object}  domain.Conversion
// @Failure      400  {object}  map[string]string
// @Router       /api/convert [get]
func (h *Handler) Convert(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.convert")
	defer span.End()

	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	span.SetAttributes(attribute.String("pair", from+"/"+to))

	if !domain.IsSupported(from) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                "unsupported currency: " + from,
			"supported_currencies": domain.SupportedCodes,
		})
		return
	}
	if !domain.IsSupported(to) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":                "unsupported currency: " + to,
			"supported_currencies": domain.SupportedCodes,
		})
		return
	}

	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		return
	}

	conv, err := h.rates.Convert(ctx, from, to, amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conv)
}

// GetConversions godoc
// @Summary      Recent conversion history
// @Description  Returns the most recent conversions, newest first
// @Tags         conversions
// @Produce      json
// @Param        limit  query  int  false  "Max entries (default 20, max 100)"  default(20)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/conversions [get]
func (h *Handler) GetConversions(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-conversions")
	defer span.End()

	limit := 20
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	c.JSON(http.StatusOK, gin.H{"conversions": h.rates.RecentConversions(limit)})
}
