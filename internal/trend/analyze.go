package trend

// Direction classifies where a rate series is heading.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Basis selects which quantity the direction threshold applies to.
type Basis int

const (
	// BasisSlope classifies on the fitted slope.
	BasisSlope Basis = iota
	// BasisPercentChange classifies on the overall percent change.
	BasisPercentChange
)

// PercentSource selects the endpoints used for percent change.
type PercentSource int

const (
	// PercentFromRaw uses the first and last observed rates.
	PercentFromRaw PercentSource = iota
	// PercentFromFit uses the fitted line's values at both endpoints,
	// ignoring observation noise.
	PercentFromFit
)

// ClassificationPolicy controls how Analyze derives a direction. The
// server forecast endpoint and the dashboard trend panel historically
// used different rules; both remain supported rather than silently
// unified, so the rule is an explicit parameter.
type ClassificationPolicy struct {
	Basis     Basis
	Threshold float64
	Source    PercentSource
}

// SlopePolicy is the server-side rule: direction from the fitted slope
// with a ±0.0001 dead zone, percent change from raw endpoints.
var SlopePolicy = ClassificationPolicy{Basis: BasisSlope, Threshold: 0.0001, Source: PercentFromRaw}

// PercentChangePolicy is the dashboard rule: direction from percent
// change with a ±0.5% dead zone.
var PercentChangePolicy = ClassificationPolicy{Basis: BasisPercentChange, Threshold: 0.5, Source: PercentFromRaw}

// Confidence bounds: R² maps into [50, 95] so the UI never shows a
// forecast as either worthless or certain.
const (
	minConfidence = 50.0
	maxConfidence = 95.0
)

// Summary is the trend readout for one series.
type Summary struct {
	Direction     Direction `json:"direction"`
	PercentChange float64   `json:"percentChange"`
	Confidence    float64   `json:"confidence"`
}

// Analyze fits the series once and derives direction, percent change,
// and a goodness-of-fit confidence score under the given policy.
func Analyze(series []float64, policy ClassificationPolicy) (Summary, error) {
	fit, err := FitSeries(series)
	if err != nil {
		return Summary{}, err
	}

	pct := percentChange(series, fit, policy.Source)

	var direction Direction
	switch policy.Basis {
	case BasisPercentChange:
		direction = classify(pct, policy.Threshold)
	default:
		direction = classify(fit.Slope, policy.Threshold)
	}

	return Summary{
		Direction:     direction,
		PercentChange: pct,
		Confidence:    confidence(series, fit),
	}, nil
}

func classify(v, threshold float64) Direction {
	switch {
	case v > threshold:
		return DirectionUp
	case v < -threshold:
		return DirectionDown
	default:
		return DirectionStable
	}
}

func percentChange(series []float64, fit Fit, source PercentSource) float64 {
	first, last := series[0], series[len(series)-1]
	if source == PercentFromFit {
		first = fit.Predict(0)
		last = fit.Predict(float64(len(series) - 1))
	}
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// confidence maps R² of the fit into [minConfidence, maxConfidence].
// A constant series has zero total variance; any flat fit explains it
// perfectly, so that degenerate case scores the maximum.
func confidence(series []float64, fit Fit) float64 {
	var mean float64
	for _, y := range series {
		mean += y
	}
	mean /= float64(len(series))

	var ssRes, ssTot float64
	for i, y := range series {
		d := y - fit.Predict(float64(i))
		ssRes += d * d
		t := y - mean
		ssTot += t * t
	}

	if ssTot == 0 {
		return maxConfidence
	}

	r2 := 1 - ssRes/ssTot
	score := r2 * 100
	if score < minConfidence {
		return minConfidence
	}
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}
