package vcs

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepository implements Repository with go-git.
type GitRepository struct {
	repo *git.Repository
	path string
}

// Open opens the git repository at path. Parent directories are searched
// for a .git directory the same way the git CLI does, and Path reports the
// root of the worktree that was found. For bare repositories Path is the
// path given.
func Open(path string) (*GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("vcs: open %s: %w", path, err)
	}
	if wt, err := repo.Worktree(); err == nil {
		path = wt.Filesystem.Root()
	}
	return &GitRepository{repo: repo, path: path}, nil
}

// Wrap adapts an already opened go-git repository. The path is only used in
// error messages and may be empty for in-memory repositories.
func Wrap(repo *git.Repository, path string) *GitRepository {
	return &GitRepository{repo: repo, path: path}
}

// Path implements Repository.
func (r *GitRepository) Path() string {
	return r.path
}

// ResolveHead implements Repository.
func (r *GitRepository) ResolveHead() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNoRefTarget, r.path)
		}
		return "", fmt.Errorf("vcs: resolve HEAD: %w", err)
	}
	if head.Hash().IsZero() {
		return "", fmt.Errorf("%w: %s", ErrNoRefTarget, r.path)
	}
	return head.Hash().String(), nil
}

// LoadCommit implements Repository.
func (r *GitRepository) LoadCommit(id string) (*Commit, error) {
	c, err := r.commit(id)
	if err != nil {
		return nil, err
	}
	return &Commit{
		ID:      c.Hash.String(),
		Author:  c.Author.String(),
		Message: c.Message,
		Time:    c.Committer.When,
	}, nil
}

// ExtractSignature implements Repository.
//
// The signed bytes are the commit object re-encoded without its gpgsig
// header, which is what git feeds to gpg, ssh-keygen or gitsign.
func (r *GitRepository) ExtractSignature(id string) ([]byte, []byte, error) {
	c, err := r.commit(id)
	if err != nil {
		return nil, nil, err
	}
	if c.PGPSignature == "" {
		return nil, nil, ErrNoSignature
	}

	encoded := &plumbing.MemoryObject{}
	if err := c.EncodeWithoutSignature(encoded); err != nil {
		return nil, nil, fmt.Errorf("vcs: encode %s without signature: %w", id, err)
	}
	rd, err := encoded.Reader()
	if err != nil {
		return nil, nil, fmt.Errorf("vcs: read encoded %s: %w", id, err)
	}
	defer rd.Close()

	signed, err := io.ReadAll(rd)
	if err != nil {
		return nil, nil, fmt.Errorf("vcs: read encoded %s: %w", id, err)
	}
	return []byte(c.PGPSignature), signed, nil
}

// HardReset implements Repository.
func (r *GitRepository) HardReset(id string) error {
	c, err := r.commit(id)
	if err != nil {
		return err
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("vcs: worktree: %w", err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: c.Hash, Mode: git.HardReset}); err != nil {
		return fmt.Errorf("vcs: hard reset to %s: %w", id, err)
	}
	return nil
}

func (r *GitRepository) commit(id string) (*object.Commit, error) {
	canonical, err := ParseRevisionID(id)
	if err != nil {
		return nil, err
	}
	// go-git v5 only addresses objects by SHA-1.
	if len(canonical) != sha1HexLen {
		return nil, fmt.Errorf("%w: %q is not a SHA-1 object name", ErrInvalidRevision, id)
	}

	c, err := r.repo.CommitObject(plumbing.NewHash(canonical))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, canonical)
		}
		return nil, fmt.Errorf("vcs: load commit %s: %w", canonical, err)
	}
	return c, nil
}
