package policy

import "errors"

// Sentinel errors for the built-in policies.
var (
	// ErrUnsigned indicates the revision carries no signature.
	ErrUnsigned = errors.New("policy: revision is not signed")

	// ErrFormatNotAllowed indicates the signature format is not accepted.
	ErrFormatNotAllowed = errors.New("policy: signature format not allowed")

	// ErrAuthorNotAllowed indicates the author matched none of the patterns.
	ErrAuthorNotAllowed = errors.New("policy: author not allowed")

	// ErrBadPattern indicates an author pattern is not a valid glob.
	ErrBadPattern = errors.New("policy: invalid author pattern")

	// ErrNotVerified indicates the signature did not verify.
	ErrNotVerified = errors.New("policy: signature not verified")
)
