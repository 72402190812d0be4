// Package pin records the last known-good revision of each repository so a
// repository whose head fails verification can be reset to it.
package pin

import (
	"errors"
	"fmt"
	"time"

	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/revtrust/vcs"
)

// ErrInvalidRecord is returned when a record fails validation.
var ErrInvalidRecord = errors.New("pin: invalid record")

// Record describes a revision that passed verification.
type Record struct {
	// Revision is the trusted revision ID.
	Revision string `json:"revision"`

	// PayloadDigest is the digest of the signed bytes of the revision.
	// It is empty for unsigned revisions.
	PayloadDigest digest.Digest `json:"payload_digest,omitempty"`

	// PinnedAt is when the revision was verified.
	PinnedAt time.Time `json:"pinned_at"`
}

// Validate checks the record fields.
func (r Record) Validate() error {
	if _, err := vcs.ParseRevisionID(r.Revision); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if r.PayloadDigest != "" {
		if err := r.PayloadDigest.Validate(); err != nil {
			return fmt.Errorf("%w: payload digest: %w", ErrInvalidRecord, err)
		}
	}
	return nil
}

// MatchesPayload reports whether signed hashes to the recorded payload
// digest. Records without a digest match only an empty payload.
func (r Record) MatchesPayload(signed []byte) bool {
	if r.PayloadDigest == "" {
		return len(signed) == 0
	}
	algo := r.PayloadDigest.Algorithm()
	if !algo.Available() {
		return false
	}
	return algo.FromBytes(signed) == r.PayloadDigest
}

// Store persists one record per repository key.
type Store interface {
	// Get returns the record for key if present and valid.
	Get(key string) (Record, bool)

	// Put stores rec for key, replacing any previous record.
	Put(key string, rec Record) error

	// Delete removes the record for key. Missing keys are not an error.
	Delete(key string) error
}
