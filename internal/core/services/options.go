package services

import "time"

// Option configures the shared BaseService of any service.
type Option func(*BaseService)

// WithNow overrides the service clock.
func WithNow(now func() time.Time) Option {
	return func(s *BaseService) {
		s.now = now
	}
}

func applyOptions(base *BaseService, options []Option) {
	for _, option := range options {
		option(base)
	}
}
