package scoring

import (
	"fmt"
	"math"

	"github.com/okian/propcast/internal/domain/model"
)

// DefaultStdDev is the assumed spread of a player's stat line.
const DefaultStdDev = 4.0

// Probability treats the stat as normal around the projection and returns
// integer percentages that sum to 100. over is the upper tail 1-Φ(z) with
// z = (projection-line)/σ. The estimate is parametric and uncalibrated.
func Probability(r model.PlayerStatRecord) (over, under int, err error) {
	sd := DefaultStdDev
	if r.StdDev != nil {
		sd = *r.StdDev
	}
	return probability(r.AIProjection, r.BestLine, sd)
}

func probability(projection, line, sd float64) (int, int, error) {
	if sd <= 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0, 0, fmt.Errorf("%w: std dev must be positive, got %v", ErrInvalidInput, sd)
	}
	z := (projection - line) / sd
	if math.IsNaN(z) {
		return 0, 0, fmt.Errorf("%w: non-numeric projection or line", ErrInvalidInput)
	}
	under := int(math.Round(100 * normalCDF(z)))
	return 100 - under, under, nil
}

func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
