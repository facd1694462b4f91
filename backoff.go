package sqsconsumer

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffConfig controls how long the poll loop waits after a failed receive
// before polling again.
type BackoffConfig struct {
	// Initial is the wait after the first failure.
	Initial time.Duration

	// Max caps the exponential growth.
	Max time.Duration

	// Factor is the multiplier applied after each consecutive failure.
	Factor float64

	// RandomizationFactor spreads every wait over
	// [wait*(1-RandomizationFactor), wait*(1+RandomizationFactor)].
	// Zero disables jitter.
	RandomizationFactor float64
}

// DefaultBackoffConfig returns the backoff used when Config.Backoff is unset.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:             time.Second,
		Max:                 30 * time.Second,
		Factor:              2.0,
		RandomizationFactor: 0.5,
	}
}

// newBackOff builds a backoff that never gives up. Invalid fields fall back
// to DefaultBackoffConfig.
func newBackOff(cfg BackoffConfig) *backoff.ExponentialBackOff {
	defaults := DefaultBackoffConfig()
	if cfg.Initial <= 0 {
		cfg.Initial = defaults.Initial
	}
	if cfg.Max <= 0 {
		cfg.Max = defaults.Max
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Factor < 1 {
		cfg.Factor = defaults.Factor
	}
	if cfg.RandomizationFactor < 0 || cfg.RandomizationFactor > 1 {
		cfg.RandomizationFactor = defaults.RandomizationFactor
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     cfg.Initial,
		RandomizationFactor: cfg.RandomizationFactor,
		Multiplier:          cfg.Factor,
		MaxInterval:         cfg.Max,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
