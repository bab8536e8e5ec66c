package bagz

import "github.com/zoobzio/clockz"

// Option configures a bag during creation.
type Option func(*config)

// config holds internal configuration shared by both bag flavors.
type config struct {
	clock    clockz.Clock // Time abstraction for deterministic testing
	sizeHint int
}

func defaultConfig() config {
	return config{
		clock: clockz.RealClock, // default to real clock
	}
}

// WithClock sets the clock implementation used for metrics timestamps.
// Default is clockz.RealClock for production use.
// Use a fake clock for deterministic testing.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithSizeHint pre-sizes the handler storage for bags with a known
// registration count. Default is 0 (no pre-allocation).
func WithSizeHint(n int) Option {
	return func(c *config) {
		c.sizeHint = n
	}
}
