package handler

import (
	"context"

	"ratedash/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// AdvisorQuerier answers free-form questions about tracked pairs.
type AdvisorQuerier interface {
	Ask(ctx context.Context, chatID int64, question string) (string, error)
}

type Handler struct {
	tracer    trace.Tracer
	rates     *service.RateService
	analytics *service.AnalyticsService
	advisor   AdvisorQuerier
	apiKey    string
}

func New(tracer trace.Tracer, rates *service.RateService, analytics *service.AnalyticsService) *Handler {
	return &Handler{
		tracer:    tracer,
		rates:     rates,
		analytics: analytics,
	}
}

// SetAdvisor enables the advisor endpoint; without it the route
// answers 503.
func (h *Handler) SetAdvisor(advisor AdvisorQuerier) {
	h.advisor = advisor
}

// SetAPIKey guards the advisor route with X-API-Key auth.
func (h *Handler) SetAPIKey(key string) {
	h.apiKey = key
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/currencies", h.GetCurrencies)
	r.GET("/api/convert", h.Convert)
	r.GET("/api/conversions", h.GetConversions)
	r.GET("/api/rates/:pair/history", h.GetHistory)
	r.GET("/api/forecast/:pair", h.GetForecast)
	r.POST("/api/advisor/ask", APIKeyAuth(h.apiKey), h.AskAdvisor)
}
