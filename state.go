package revtrust

import (
	"errors"
	"fmt"
)

// State is a step in the repository trust lifecycle:
//
//	Unchecked -> Inspected -> Trusted | Untrusted
//	Untrusted -> (Recover) -> Inspected
type State int

// Lifecycle states.
const (
	StateUnchecked State = iota
	StateInspected
	StateTrusted
	StateUntrusted
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateInspected:
		return "inspected"
	case StateTrusted:
		return "trusted"
	case StateUntrusted:
		return "untrusted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Verdict is the outcome of Checker.Check.
type Verdict struct {
	State    State
	Revision *RevisionInfo

	// Reason joins every check that failed. It is nil for trusted verdicts.
	Reason error
}

// Trusted reports whether the revision passed every check.
func (v *Verdict) Trusted() bool {
	return v.State == StateTrusted
}

// Err returns nil for trusted verdicts and an error matching ErrUntrusted
// and each individual failure otherwise.
func (v *Verdict) Err() error {
	if v.Trusted() {
		return nil
	}
	if v.Reason == nil {
		return ErrUntrusted
	}
	return fmt.Errorf("%w: %w", ErrUntrusted, v.Reason)
}

// Failures returns the individual failed checks.
func (v *Verdict) Failures() []error {
	if v.Reason == nil {
		return nil
	}
	if joined, ok := v.Reason.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{v.Reason}
}

// IsStale reports whether the verdict failed the freshness check.
func (v *Verdict) IsStale() bool {
	return errors.Is(v.Reason, ErrStale)
}
