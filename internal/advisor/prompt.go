package advisor

import (
	"fmt"
	"strings"
	"time"

	"ratedash/internal/trend"
)

const advisorPhilosophy = `You are a currency exchange advisor bot. Your role is to interpret exchange rates and trend analysis, NOT to predict markets on your own.

Trend readouts:
- Direction comes from a 30-day percent change: up above +0.5%, down below -0.5%, stable in between.
- Confidence is a goodness-of-fit score between 50 and 95. Below 60 means the trend is noisy.

Rules:
- Always reference specific rates and trend readings when making observations.
- Never fabricate data. If data is unavailable, say so.
- Express uncertainty when confidence is low or readings conflict.
- Keep responses concise. Users are asking quick conversion and timing questions.
- Do not provide financial advice disclaimers on every message. The user understands this is informational.
- When asked about a pair, summarize: current rate, direction, percent change, and your interpretation.
- If no history exists for a pair, say so honestly rather than speculating.`

// PairReadout is one pair's context line for the system prompt.
type PairReadout struct {
	Pair    string
	Rate    float64
	Summary *trend.Summary
}

func BuildSystemPrompt(rateContext string) string {
	var sb strings.Builder
	sb.WriteString(advisorPhilosophy)
	sb.WriteString("\n\n--- LIVE RATE DATA (as of ")
	sb.WriteString(time.Now().UTC().Format(time.RFC822))
	sb.WriteString(") ---\n")
	sb.WriteString(rateContext)
	return sb.String()
}

func FormatRateContext(readouts []PairReadout) string {
	if len(readouts) == 0 {
		return "No rate data currently available."
	}

	var sb strings.Builder
	sb.WriteString("\nCurrent Rates:\n")
	for _, r := range readouts {
		sb.WriteString(fmt.Sprintf("  %s: %.4f", r.Pair, r.Rate))
		if r.Summary != nil {
			sb.WriteString(fmt.Sprintf(" (30d: %s %+.2f%%, confidence %.0f)",
				strings.ToUpper(string(r.Summary.Direction)), r.Summary.PercentChange, r.Summary.Confidence))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
