package domain

import "time"

// RatePoint is one daily exchange-rate observation. Series are kept
// in ascending date order; index position encodes elapsed days.
type RatePoint struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}

// Rates extracts the raw rate values of a series, preserving order.
func Rates(points []RatePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Rate
	}
	return out
}

// Conversion is one executed currency conversion.
type Conversion struct {
	ID        int64     `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    float64   `json:"amount"`
	Rate      float64   `json:"rate"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationMessage is one advisor chat turn.
type ConversationMessage struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
