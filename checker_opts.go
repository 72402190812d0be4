package revtrust

import (
	"errors"
	"log/slog"
	"time"

	"github.com/meigma/revtrust/pin"
)

// Option configures a Checker.
type Option func(*Checker) error

// WithMaxAgeDays sets the number of days after which a head revision is
// stale. Defaults to DefaultMaxAgeDays.
func WithMaxAgeDays(days uint32) Option {
	return func(c *Checker) error {
		if days == 0 {
			return errors.New("max age must be at least one day")
		}
		c.maxAgeDays = days
		return nil
	}
}

// WithClock overrides the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		c.now = now
		return nil
	}
}

// WithRequireSignature makes unsigned head revisions untrusted.
func WithRequireSignature(required bool) Option {
	return func(c *Checker) error {
		c.requireSignature = required
		return nil
	}
}

// WithPolicy adds a policy evaluated after the built-in checks.
// Policies run in the order they were added.
func WithPolicy(p Policy) Option {
	return func(c *Checker) error {
		if p == nil {
			return errors.New("policy must not be nil")
		}
		c.policies = append(c.policies, p)
		return nil
	}
}

// WithPinStore records trusted revisions in s and enables Recover.
func WithPinStore(s pin.Store) Option {
	return func(c *Checker) error {
		c.pins = s
		return nil
	}
}

// WithLogger sets a custom logger for the checker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) error {
		c.logger = logger
		return nil
	}
}
