package revtrust

import "github.com/meigma/revtrust/vcs"

// ResetTo hard resets repo to revisionID.
//
// This is destructive: HEAD, the index and the working tree are overwritten
// to match the target and uncommitted changes are discarded. It is the
// recovery path for a repository whose head could not be trusted. Atomicity
// is whatever the engine provides for a hard reset.
//
// Failures are returned as *[ResetError]; a malformed revisionID also
// matches [ErrInvalidRevision].
func ResetTo(repo vcs.Repository, revisionID string) error {
	id, err := vcs.ParseRevisionID(revisionID)
	if err != nil {
		return &ResetError{Revision: revisionID, Err: err}
	}
	if err := repo.HardReset(id); err != nil {
		return &ResetError{Revision: id, Err: err}
	}
	return nil
}
