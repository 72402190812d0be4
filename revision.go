package revtrust

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meigma/revtrust/signature"
	"github.com/meigma/revtrust/vcs"
)

// RevisionInfo is a snapshot of a repository's head revision.
//
// It holds no reference into the repository and stays valid after the
// working tree changes, though it then no longer describes HEAD.
// The zero value is not useful; obtain one from [InspectHead].
type RevisionInfo struct {
	id        string
	author    string
	summary   string
	timestamp time.Time
	sig       *signature.Signature
	signed    []byte
}

// InspectHead resolves HEAD and reads the revision it points to.
//
// Steps run in order and stop at the first failure: resolve HEAD, load the
// revision, read author and summary, extract the detached signature. A
// revision without a signature is not an error. A failure while extracting
// the signature is treated the same as no signature; signature bytes that
// were extracted but fail to parse are reported with [ErrSignatureFormat].
func InspectHead(repo vcs.Repository) (*RevisionInfo, error) {
	id, err := repo.ResolveHead()
	if err != nil {
		if errors.Is(err, vcs.ErrNoRefTarget) {
			return nil, &RepositoryError{
				Op:   "resolve head",
				Path: repo.Path(),
				Msg:  "no ref target for: " + repo.Path(),
				Err:  err,
			}
		}
		return nil, &RepositoryError{Op: "resolve head", Path: repo.Path(), Err: err}
	}

	commit, err := repo.LoadCommit(id)
	if err != nil {
		return nil, &RepositoryError{Op: "load commit", Path: repo.Path(), Revision: id, Err: err}
	}

	summary := summaryLine(commit.Message)
	if summary == "" {
		return nil, &RepositoryError{
			Op:       "read summary",
			Path:     repo.Path(),
			Revision: id,
			Msg:      "no commit summary for " + id,
		}
	}

	info := &RevisionInfo{
		id:        id,
		author:    commit.Author,
		summary:   summary,
		timestamp: commit.Time.UTC().Truncate(time.Second),
	}

	rawSig, signed, err := repo.ExtractSignature(id)
	if err != nil {
		return info, nil
	}
	sig, err := signature.Parse(rawSig)
	if err != nil {
		return nil, fmt.Errorf("revision %s: %w", id, err)
	}
	info.sig = sig
	info.signed = bytes.Clone(signed)
	if info.signed == nil {
		info.signed = []byte{}
	}
	return info, nil
}

// summaryLine returns the first line of message with surrounding whitespace
// removed. A message whose first line is blank has no summary.
func summaryLine(message string) string {
	first, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(first)
}

// ID returns the hex revision ID.
func (r *RevisionInfo) ID() string {
	return r.id
}

// Author returns the committer display string as recorded. It is not
// verified.
func (r *RevisionInfo) Author() string {
	return r.author
}

// Summary returns the first line of the revision message.
func (r *RevisionInfo) Summary() string {
	return r.summary
}

// Time returns the commit time in UTC with one second resolution.
func (r *RevisionInfo) Time() time.Time {
	return r.timestamp
}

// Signature returns the parsed detached signature, or nil when the revision
// is unsigned.
func (r *RevisionInfo) Signature() *signature.Signature {
	return r.sig
}

// Signed reports whether the revision carries a detached signature.
func (r *RevisionInfo) Signed() bool {
	return r.sig != nil
}

// RawSignedBytes returns a copy of the exact bytes covered by the signature,
// or nil when the revision is unsigned. Feed these to a signature verifier;
// they are not a rendering of the revision meant for display.
func (r *RevisionInfo) RawSignedBytes() []byte {
	if r.sig == nil {
		return nil
	}
	return bytes.Clone(r.signed)
}

// EnsureFresh is shorthand for [EnsureFresh](r, maxAgeDays, now).
func (r *RevisionInfo) EnsureFresh(maxAgeDays uint32, now time.Time) error {
	return EnsureFresh(r, maxAgeDays, now)
}
