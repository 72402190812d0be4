// Package vcs defines the boundary between revtrust and the version-control
// engine that owns the object store and working tree.
//
// The [Repository] interface is the only surface the trust checks consume.
// [GitRepository] implements it on top of go-git; tests and alternative
// engines can provide their own implementation.
//
// A Repository is not safe for concurrent use. Callers must hold exclusive
// ownership of the working tree for the duration of any call.
package vcs

import (
	"errors"
	"time"
)

// Sentinel errors returned by Repository implementations.
var (
	// ErrNoRefTarget is returned when HEAD cannot be dereferenced to a
	// revision, for example on an unborn branch.
	ErrNoRefTarget = errors.New("vcs: no ref target")

	// ErrObjectNotFound is returned when a revision object is missing from
	// the object store or cannot be decoded.
	ErrObjectNotFound = errors.New("vcs: object not found")

	// ErrNoSignature is returned by ExtractSignature when the revision
	// carries no detached signature.
	ErrNoSignature = errors.New("vcs: no signature")

	// ErrInvalidRevision is returned when a revision identifier is not well
	// formed for the repository's hashing scheme.
	ErrInvalidRevision = errors.New("vcs: invalid revision id")
)

// Commit is the engine's view of a revision object.
type Commit struct {
	// ID is the hex content hash of the revision.
	ID string

	// Author is the display string of the committer identity.
	Author string

	// Message is the full revision message.
	Message string

	// Time is the commit time as recorded, in the recorded zone.
	Time time.Time
}

// Repository is the set of engine primitives the trust checks depend on.
type Repository interface {
	// Path returns a human readable location for error messages.
	Path() string

	// ResolveHead dereferences HEAD to a concrete revision ID.
	ResolveHead() (string, error)

	// LoadCommit loads the revision object for id.
	LoadCommit(id string) (*Commit, error)

	// ExtractSignature returns the detached signature of revision id and the
	// exact bytes it covers. It returns ErrNoSignature when id is unsigned.
	ExtractSignature(id string) (sig []byte, signed []byte, err error)

	// HardReset points HEAD at id and overwrites the index and working tree
	// to match it. Uncommitted changes are lost.
	HardReset(id string) error
}
