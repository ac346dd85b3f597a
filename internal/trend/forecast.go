package trend

import (
	"fmt"
	"math/rand"
	"time"
)

// noiseAmplitude bounds the uniform jitter added to each forecast point
// so charts do not render a perfectly straight synthetic line.
const noiseAmplitude = 0.001

// Point is one projected future rate. Day counts forward from the last
// observation: Day 1 is tomorrow relative to the series end.
type Point struct {
	Day  int
	Rate float64
}

// Forecast projects horizon daily points by extending the fitted line
// past the series and jittering each point by ±noiseAmplitude. The rng
// is injectable so tests can seed it; a nil rng gets a time-seeded one.
func Forecast(series []float64, horizon int, rng *rand.Rand) ([]Point, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: horizon must be at least 1, got %d", ErrInvalidInput, horizon)
	}

	fit, err := FitSeries(series)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	lastIndex := float64(len(series) - 1)
	points := make([]Point, horizon)
	for i := 0; i < horizon; i++ {
		x := lastIndex + float64(i) + 1
		noise := (rng.Float64() - 0.5) * 2 * noiseAmplitude
		points[i] = Point{
			Day:  i + 1,
			Rate: fit.Predict(x) + noise,
		}
	}
	return points, nil
}
