package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"ratedash/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const frankfurterBaseURL = "https://api.frankfurter.dev/v1"

// FrankfurterProvider fetches ECB reference rates from the free
// Frankfurter API.
type FrankfurterProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewFrankfurterProvider creates a provider with built-in rate
// limiting: 10 requests per minute (one token every 6 seconds).
func NewFrankfurterProvider(tracer trace.Tracer) *FrankfurterProvider {
	return &FrankfurterProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: frankfurterBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 6*time.Second),
	}
}

func (p *FrankfurterProvider) FetchRate(ctx context.Context, from, to string) (float64, error) {
	_, span := p.tracer.Start(ctx, "frankfurter.fetch-rate")
	defer span.End()

	url := fmt.Sprintf("%s/latest?base=%s&symbols=%s", p.baseURL, from, to)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("fetch rate %s/%s: %w", from, to, err)
	}

	var payload struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("parse rate %s/%s: %w", from, to, err)
	}
	rate, ok := payload.Rates[to]
	if !ok {
		return 0, fmt.Errorf("rate %s/%s missing from response", from, to)
	}
	return rate, nil
}

// FetchHistory queries a date range ending today. The API only returns
// business days, so the series may hold fewer points than days.
func (p *FrankfurterProvider) FetchHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error) {
	_, span := p.tracer.Start(ctx, "frankfurter.fetch-history")
	defer span.End()

	if days < 1 {
		return nil, fmt.Errorf("history days must be at least 1, got %d", days)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(days - 1))
	url := fmt.Sprintf("%s/%s..%s?base=%s&symbols=%s",
		p.baseURL, start.Format("2006-01-02"), end.Format("2006-01-02"), from, to)

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s/%s: %w", from, to, err)
	}

	var payload struct {
		Rates map[string]map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse history %s/%s: %w", from, to, err)
	}

	points := make([]domain.RatePoint, 0, len(payload.Rates))
	for dateStr, rates := range payload.Rates {
		rate, ok := rates[to]
		if !ok {
			continue
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		points = append(points, domain.RatePoint{Date: date.UTC(), Rate: rate})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func (p *FrankfurterProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("frankfurter API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
