package policy

import (
	"context"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/meigma/revtrust"
	"github.com/meigma/revtrust/signature"
)

// Verifier checks a detached signature against the bytes it covers.
type Verifier interface {
	Verify(ctx context.Context, sig *signature.Signature, signed []byte) error
}

// MaxAge returns a policy that rejects revisions older than days, using the
// evaluation time of the request. It is useful inside RequireAny to apply a
// different limit to a subset of revisions.
func MaxAge(days uint32) revtrust.Policy {
	return revtrust.PolicyFunc(func(_ context.Context, req revtrust.PolicyRequest) error {
		return revtrust.EnsureFresh(req.Revision, days, req.Now)
	})
}

// RequireSigned returns a policy that rejects unsigned revisions.
func RequireSigned() revtrust.Policy {
	return revtrust.PolicyFunc(func(_ context.Context, req revtrust.PolicyRequest) error {
		if !req.Revision.Signed() {
			return fmt.Errorf("%w: %s", ErrUnsigned, req.Revision.ID())
		}
		return nil
	})
}

// RequireFormat returns a policy that accepts only signatures in one of the
// given formats. Unsigned revisions are rejected.
func RequireFormat(formats ...signature.Format) revtrust.Policy {
	return revtrust.PolicyFunc(func(_ context.Context, req revtrust.PolicyRequest) error {
		sig := req.Revision.Signature()
		if sig == nil {
			return fmt.Errorf("%w: %s", ErrUnsigned, req.Revision.ID())
		}
		if !slices.Contains(formats, sig.Format()) {
			return fmt.Errorf("%w: %s", ErrFormatNotAllowed, sig.Format())
		}
		return nil
	})
}

// RequireAuthor returns a policy that accepts revisions whose author display
// string matches one of the glob patterns, for example
// "Advisory Bot <*@advisories.example>".
//
// The author string is not authenticated; combine this with RequireVerified.
func RequireAuthor(patterns ...string) revtrust.Policy {
	return revtrust.PolicyFunc(func(_ context.Context, req revtrust.PolicyRequest) error {
		author := req.Revision.Author()
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, author)
			if err != nil {
				return fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
			}
			if ok {
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrAuthorNotAllowed, author)
	})
}

// RequireVerified returns a policy that passes the revision's signature and
// signed bytes to v. Unsigned revisions are rejected.
func RequireVerified(v Verifier) revtrust.Policy {
	return revtrust.PolicyFunc(func(ctx context.Context, req revtrust.PolicyRequest) error {
		sig := req.Revision.Signature()
		if sig == nil {
			return fmt.Errorf("%w: %s", ErrUnsigned, req.Revision.ID())
		}
		if err := v.Verify(ctx, sig, req.Revision.RawSignedBytes()); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNotVerified, req.Revision.ID(), err)
		}
		return nil
	})
}
