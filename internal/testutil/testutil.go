// Package testutil provides git fixtures and fakes shared by revtrust tests.
package testutil

import (
	"sync"

	"github.com/meigma/revtrust/vcs"
)

// FakeRepository is an in-memory vcs.Repository whose responses are set
// directly by the test.
type FakeRepository struct {
	mu sync.Mutex

	RepoPath string
	Head     string
	HeadErr  error
	Commits  map[string]*vcs.Commit
	LoadErr  error

	// Signatures and SignedBytes are keyed by revision ID. A missing entry
	// yields vcs.ErrNoSignature unless SignatureErr is set.
	Signatures   map[string][]byte
	SignedBytes  map[string][]byte
	SignatureErr error

	ResetErr error

	// Calls records the order in which primitives were invoked.
	Calls []string
}

// NewFakeRepository returns a fake whose HEAD points at c.
func NewFakeRepository(c *vcs.Commit) *FakeRepository {
	return &FakeRepository{
		RepoPath:    "/fake/repo",
		Head:        c.ID,
		Commits:     map[string]*vcs.Commit{c.ID: c},
		Signatures:  make(map[string][]byte),
		SignedBytes: make(map[string][]byte),
	}
}

// Sign attaches a detached signature to revision id.
func (f *FakeRepository) Sign(id string, sig, signed []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Signatures[id] = sig
	f.SignedBytes[id] = signed
}

// Path implements vcs.Repository.
func (f *FakeRepository) Path() string {
	return f.RepoPath
}

// ResolveHead implements vcs.Repository.
func (f *FakeRepository) ResolveHead() (string, error) {
	f.record("resolve")
	if f.HeadErr != nil {
		return "", f.HeadErr
	}
	return f.Head, nil
}

// LoadCommit implements vcs.Repository.
func (f *FakeRepository) LoadCommit(id string) (*vcs.Commit, error) {
	f.record("load")
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	c, ok := f.Commits[id]
	if !ok {
		return nil, vcs.ErrObjectNotFound
	}
	cp := *c
	return &cp, nil
}

// ExtractSignature implements vcs.Repository.
func (f *FakeRepository) ExtractSignature(id string) ([]byte, []byte, error) {
	f.record("signature")
	if f.SignatureErr != nil {
		return nil, nil, f.SignatureErr
	}
	sig, ok := f.Signatures[id]
	if !ok {
		return nil, nil, vcs.ErrNoSignature
	}
	return sig, f.SignedBytes[id], nil
}

// HardReset implements vcs.Repository.
func (f *FakeRepository) HardReset(id string) error {
	f.record("reset")
	if f.ResetErr != nil {
		return f.ResetErr
	}
	if _, ok := f.Commits[id]; !ok {
		return vcs.ErrObjectNotFound
	}
	f.Head = id
	return nil
}

func (f *FakeRepository) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}
