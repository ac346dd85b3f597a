package handler

import (
	"net/http"

	"ratedash/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetCurrencies godoc
// @Summary      List supported currencies
// @Description  Returns metadata (name, symbol, flag) for every supported currency
// @Tags         currencies
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/currencies [get]
func (h *Handler) GetCurrencies(c *gin.Context) {
	_, span := h.tracer.Start(c.Request.Context(), "handler.get-currencies")
	defer span.End()

	currencies := make([]domain.Currency, 0, len(domain.SupportedCodes))
	for _, code := range domain.SupportedCodes {
		currencies = append(currencies, domain.Currencies[code])
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}
