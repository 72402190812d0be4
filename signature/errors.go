package signature

import "errors"

// Sentinel errors for signature parsing.
var (
	// ErrMalformed is returned when signature bytes are present but do not
	// decode as a valid container. All parse failures match it.
	ErrMalformed = errors.New("signature: malformed")

	// ErrEmpty is returned for zero-length input.
	ErrEmpty = errors.New("signature: empty")

	// ErrUnknownFormat is returned when the armor header is not recognised.
	ErrUnknownFormat = errors.New("signature: unknown format")
)
