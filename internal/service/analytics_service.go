package service

import (
	"context"
	"math/rand"
	"time"

	"ratedash/internal/domain"
	"ratedash/internal/trend"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HistorySource supplies the daily rate series analytics runs over.
type HistorySource interface {
	GetHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error)
}

// AnomalyDetector flags suspicious indices in a rate series.
type AnomalyDetector interface {
	Detect(series []float64) []int
}

// DatedRate is one (date, rate) pair as serialized to clients.
type DatedRate struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// Analysis is the trend readout attached to a forecast response.
type Analysis struct {
	PercentChange float64         `json:"percentChange"`
	Direction     trend.Direction `json:"direction"`
	Confidence    float64         `json:"confidence"`
	ExpectedHigh  float64         `json:"expectedHigh"`
	ExpectedLow   float64         `json:"expectedLow"`
}

// ForecastResult is the full payload of the forecast endpoint.
type ForecastResult struct {
	Pair     string      `json:"pair"`
	Forecast []DatedRate `json:"forecast"`
	Analysis Analysis    `json:"analysis"`
}

// StatisticsResult is the full payload of the history endpoint.
type StatisticsResult struct {
	Pair       string      `json:"pair"`
	Rates      []DatedRate `json:"rates"`
	Statistics trend.Stats `json:"statistics"`
	Anomalies  []string    `json:"anomalies,omitempty"`
}

// AnalyticsService runs the trend engine over stored rate history and
// shapes the results for the HTTP, TUI, bot, and MCP surfaces.
type AnalyticsService struct {
	tracer   trace.Tracer
	rates    HistorySource
	detector AnomalyDetector
	rng      *rand.Rand
}

// NewAnalyticsService wires the trend engine to a history source. A
// non-nil rng makes forecast noise reproducible; production passes nil
// and gets fresh randomness per call.
func NewAnalyticsService(tracer trace.Tracer, rates HistorySource, detector AnomalyDetector, rng *rand.Rand) *AnalyticsService {
	return &AnalyticsService{
		tracer:   tracer,
		rates:    rates,
		detector: detector,
		rng:      rng,
	}
}

// Forecast projects horizon daily points past the stored history and
// attaches the trend analysis. Forecast dates start at tomorrow.
func (s *AnalyticsService) Forecast(ctx context.Context, from, to string, historyDays, horizon int) (ForecastResult, error) {
	ctx, span := s.tracer.Start(ctx, "analytics-service.forecast")
	defer span.End()
	span.SetAttributes(
		attribute.String("pair", from+"/"+to),
		attribute.Int("horizon_days", horizon),
	)

	points, err := s.rates.GetHistory(ctx, from, to, historyDays)
	if err != nil {
		return ForecastResult{}, err
	}
	series := domain.Rates(points)

	forecast, err := trend.Forecast(series, horizon, s.rng)
	if err != nil {
		return ForecastResult{}, err
	}
	summary, err := trend.Analyze(series, trend.SlopePolicy)
	if err != nil {
		return ForecastResult{}, err
	}

	today := time.Now().UTC()
	dated := make([]DatedRate, len(forecast))
	high, low := forecast[0].Rate, forecast[0].Rate
	for i, p := range forecast {
		dated[i] = DatedRate{
			Date: today.AddDate(0, 0, p.Day).Format("2006-01-02"),
			Rate: p.Rate,
		}
		if p.Rate > high {
			high = p.Rate
		}
		if p.Rate < low {
			low = p.Rate
		}
	}

	return ForecastResult{
		Pair:     from + "/" + to,
		Forecast: dated,
		Analysis: Analysis{
			PercentChange: summary.PercentChange,
			Direction:     summary.Direction,
			Confidence:    summary.Confidence,
			ExpectedHigh:  high,
			ExpectedLow:   low,
		},
	}, nil
}

// Statistics summarizes stored history for a pair and flags anomalous
// dates. Anomaly detection is best-effort and never fails the request.
func (s *AnalyticsService) Statistics(ctx context.Context, from, to string, days int) (StatisticsResult, error) {
	ctx, span := s.tracer.Start(ctx, "analytics-service.statistics")
	defer span.End()
	span.SetAttributes(attribute.String("pair", from+"/"+to))

	points, err := s.rates.GetHistory(ctx, from, to, days)
	if err != nil {
		return StatisticsResult{}, err
	}
	series := domain.Rates(points)

	stats, err := trend.Summarize(series)
	if err != nil {
		return StatisticsResult{}, err
	}

	dated := make([]DatedRate, len(points))
	for i, p := range points {
		dated[i] = DatedRate{Date: p.Date.Format("2006-01-02"), Rate: p.Rate}
	}

	var anomalies []string
	if s.detector != nil {
		for _, idx := range s.detector.Detect(series) {
			anomalies = append(anomalies, points[idx].Date.Format("2006-01-02"))
		}
	}

	return StatisticsResult{
		Pair:       from + "/" + to,
		Rates:      dated,
		Statistics: stats,
		Anomalies:  anomalies,
	}, nil
}

// Trend exposes the dashboard-style trend readout: direction from the
// percent-change rule rather than the slope rule used by Forecast.
func (s *AnalyticsService) Trend(ctx context.Context, from, to string, days int) (trend.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "analytics-service.trend")
	defer span.End()

	points, err := s.rates.GetHistory(ctx, from, to, days)
	if err != nil {
		return trend.Summary{}, err
	}
	return trend.Analyze(domain.Rates(points), trend.PercentChangePolicy)
}

// AnomalousDates returns the dates flagged by the anomaly detector in
// the pair's recent history. Used by the background poller to surface
// suspicious rate movements in the logs.
func (s *AnalyticsService) AnomalousDates(ctx context.Context, from, to string, days int) ([]string, error) {
	result, err := s.Statistics(ctx, from, to, days)
	if err != nil {
		return nil, err
	}
	return result.Anomalies, nil
}
