package revtrust

import (
	"errors"
	"fmt"
	"time"

	"github.com/meigma/revtrust/signature"
	"github.com/meigma/revtrust/vcs"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	// ErrRepository is returned when the repository is structurally malformed:
	// HEAD cannot be resolved, the revision object cannot be loaded, or the
	// revision has no summary line.
	ErrRepository = errors.New("revtrust: repository error")

	// ErrSignatureFormat is returned when a revision carries signature bytes
	// that do not decode as a signature container.
	ErrSignatureFormat = signature.ErrMalformed

	// ErrStale is returned when the head revision is older than the
	// configured maximum age.
	ErrStale = errors.New("revtrust: stale repository")

	// ErrReset is returned when a hard reset could not be performed.
	ErrReset = errors.New("revtrust: reset failed")

	// ErrInvalidRevision is returned when a revision ID is malformed.
	ErrInvalidRevision = vcs.ErrInvalidRevision

	// ErrUnsigned is returned when a signature is required but the head
	// revision has none.
	ErrUnsigned = errors.New("revtrust: revision is not signed")

	// ErrPolicyViolation is returned when a policy rejects the head revision.
	ErrPolicyViolation = errors.New("revtrust: policy violation")

	// ErrUntrusted is returned when a checked revision was not trusted.
	ErrUntrusted = errors.New("revtrust: revision not trusted")

	// ErrNoPin is returned by Recover when no known-good revision is pinned
	// for the repository.
	ErrNoPin = errors.New("revtrust: no pinned revision")
)

// RepositoryError reports a structurally malformed repository.
type RepositoryError struct {
	// Op is the step that failed ("resolve head", "load commit", "read summary").
	Op string

	// Path is the repository location.
	Path string

	// Revision is the offending revision ID, if one was resolved.
	Revision string

	// Msg is a short description of the failure.
	Msg string

	// Err is the engine error, if any.
	Err error
}

func (e *RepositoryError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Op
	}
	if e.Err != nil {
		return fmt.Sprintf("repository error: %s: %v", msg, e.Err)
	}
	return "repository error: " + msg
}

// Unwrap returns the engine error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, revtrust.ErrRepository)
func (e *RepositoryError) Is(target error) bool {
	return target == ErrRepository
}

// StaleError reports that the head revision failed the freshness check.
type StaleError struct {
	MaxAgeDays uint32
	LastCommit time.Time
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("stale repo: not updated for %d days (last commit: %s)",
		e.MaxAgeDays, e.LastCommit.Format(time.RFC3339))
}

// Is implements error matching for errors.Is() checks.
func (e *StaleError) Is(target error) bool {
	return target == ErrStale
}

// ResetError reports a failed hard reset.
type ResetError struct {
	Revision string
	Err      error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset to %q failed: %v", e.Revision, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResetError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is() checks.
func (e *ResetError) Is(target error) bool {
	return target == ErrReset
}
