package revtrust

import (
	"context"
	"time"
)

// Policy decides whether an inspected revision is trusted.
type Policy interface {
	Evaluate(ctx context.Context, req PolicyRequest) error
}

// PolicyFunc is an adapter to allow ordinary functions as policies.
type PolicyFunc func(ctx context.Context, req PolicyRequest) error

// Evaluate calls f(ctx, req).
//
//nolint:gocritic // matches Policy interface signature
func (f PolicyFunc) Evaluate(ctx context.Context, req PolicyRequest) error {
	return f(ctx, req)
}

// PolicyRequest provides context for policy evaluation.
type PolicyRequest struct {
	// Path is the repository location.
	Path string

	// Revision is the inspected head revision.
	Revision *RevisionInfo

	// Now is the evaluation time used by the Checker, so every policy in a
	// check sees the same clock reading.
	Now time.Time
}
