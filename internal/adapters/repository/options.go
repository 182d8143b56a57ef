package repository

import "time"

const (
	defaultHistorySize = 20
	defaultTTL         = 24 * time.Hour
	defaultKeyPrefix   = "propcast"
)

type settings struct {
	historySize int
	ttl         time.Duration
	keyPrefix   string
}

func newSettings(opts []Option) settings {
	s := settings{historySize: defaultHistorySize, ttl: defaultTTL, keyPrefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithHistorySize sets how many runs are retained.
func WithHistorySize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.historySize = n
		}
	}
}

// WithTTL sets how long a run lives in Redis. The memory store ignores it.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces Redis keys.
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}
