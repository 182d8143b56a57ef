// Package classify decides which side, if any, a record should be bet on.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/propcast/internal/domain/model"
)

// DefaultBettableOdds is the standard vig price a side must reach to be bet.
const DefaultBettableOdds = -110

// Policy names accepted by ForPolicy.
const (
	PolicyStrict = "strict"
	PolicyNaive  = "naive"
)

// ErrUnknownPolicy is returned by ForPolicy for an unrecognized name.
var ErrUnknownPolicy = errors.New("unknown classifier policy")

// Classifier maps a record to a direction and the odds of that side.
// Fade always comes with nil odds.
type Classifier interface {
	Classify(r model.PlayerStatRecord) (model.Direction, *int)
}

// StrictClassifier only bets a side whose odds are at or below Threshold.
type StrictClassifier struct {
	Threshold int
}

// NewStrict returns a StrictClassifier at the default -110 threshold.
func NewStrict() StrictClassifier {
	return StrictClassifier{Threshold: DefaultBettableOdds}
}

// Classify implements Classifier.
func (c StrictClassifier) Classify(r model.PlayerStatRecord) (model.Direction, *int) {
	edge := r.Edge()
	switch {
	case edge > 0 && r.BestOverOdds != nil && *r.BestOverOdds <= c.Threshold:
		return model.Over, copyOdds(r.BestOverOdds)
	case edge < 0 && r.BestUnderOdds != nil && *r.BestUnderOdds <= c.Threshold:
		return model.Under, copyOdds(r.BestUnderOdds)
	default:
		return model.Fade, nil
	}
}

// NaiveClassifier bets on the sign of the edge alone.
type NaiveClassifier struct{}

// Classify implements Classifier.
func (NaiveClassifier) Classify(r model.PlayerStatRecord) (model.Direction, *int) {
	edge := r.Edge()
	switch {
	case edge > 0 && r.BestOverOdds != nil:
		return model.Over, copyOdds(r.BestOverOdds)
	case edge < 0 && r.BestUnderOdds != nil:
		return model.Under, copyOdds(r.BestUnderOdds)
	default:
		return model.Fade, nil
	}
}

// ForPolicy returns the classifier for a policy name.
func ForPolicy(name string, threshold int) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyStrict:
		return StrictClassifier{Threshold: threshold}, nil
	case PolicyNaive:
		return NaiveClassifier{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func copyOdds(p *int) *int {
	v := *p
	return &v
}
