package csvload

import (
	"github.com/okian/propcast/internal/domain/model"
	"github.com/okian/propcast/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithCategories restricts which category tables are looked for.
func WithCategories(cats ...model.Category) Option {
	return func(l *Loader) {
		if len(cats) > 0 {
			l.categories = append([]model.Category(nil), cats...)
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}
