package odds

import "fmt"

// AmericanToDecimal converts American odds to decimal odds.
// +150 → 2.50, -150 → 1.67.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: cannot be 0", ErrInvalidOdds)
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// AmericanToImpliedProbability converts American odds to the implied
// probability of the price, vig included.
func AmericanToImpliedProbability(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / dec, nil
}

// PayoutPer100 is the profit on a 100 unit stake. It maps both signs of
// American odds onto one positive scale: -110 → 90.91, +120 → 120.
func PayoutPer100(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: cannot be 0", ErrInvalidOdds)
	}
	if american > 0 {
		return float64(american), nil
	}
	return 10000.0 / float64(-american), nil
}
