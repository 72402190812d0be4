package testutil

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Identity used for fixture commits.
const (
	AuthorName  = "Advisory Bot"
	AuthorEmail = "bot@advisories.example"
)

// InitRepo creates an empty repository in a temporary directory.
func InitRepo(tb testing.TB) (*git.Repository, string) {
	tb.Helper()

	dir := tb.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		tb.Fatalf("init repo: %v", err)
	}
	return repo, dir
}

// InitMemoryRepo creates an empty repository backed by memory storage and
// an in-memory worktree.
func InitMemoryRepo(tb testing.TB) *git.Repository {
	tb.Helper()

	repo, err := git.Init(memory.NewStorage(), memfs.New())
	if err != nil {
		tb.Fatalf("init memory repo: %v", err)
	}
	return repo
}

// CommitOptions tune a fixture commit.
type CommitOptions struct {
	When    time.Time
	SignKey *openpgp.Entity
	File    string
	Content string
}

// Commit writes a file into the worktree and records a commit with message.
// It returns the new revision ID.
func Commit(tb testing.TB, repo *git.Repository, message string, opts CommitOptions) string {
	tb.Helper()

	wt, err := repo.Worktree()
	if err != nil {
		tb.Fatalf("worktree: %v", err)
	}
	if opts.When.IsZero() {
		opts.When = time.Now()
	}
	if opts.File == "" {
		opts.File = "advisories.toml"
	}
	if opts.Content == "" {
		opts.Content = fmt.Sprintf("# %s\n%d\n", message, opts.When.UnixNano())
	}

	if err := util.WriteFile(wt.Filesystem, opts.File, []byte(opts.Content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", opts.File, err)
	}
	if _, err := wt.Add(opts.File); err != nil {
		tb.Fatalf("add %s: %v", opts.File, err)
	}

	sig := &object.Signature{Name: AuthorName, Email: AuthorEmail, When: opts.When}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		SignKey:           opts.SignKey,
		AllowEmptyCommits: true,
	})
	if err != nil {
		tb.Fatalf("commit: %v", err)
	}
	return hash.String()
}

// SigningKey generates an OpenPGP entity suitable for signing commits.
func SigningKey(tb testing.TB) *openpgp.Entity {
	tb.Helper()

	entity, err := openpgp.NewEntity(AuthorName, "fixtures", AuthorEmail, &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
	})
	if err != nil {
		tb.Fatalf("generate key: %v", err)
	}
	return entity
}

// ArmoredPublicKey returns the ASCII armored public part of entity.
func ArmoredPublicKey(tb testing.TB, entity *openpgp.Entity) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		tb.Fatalf("armor: %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		tb.Fatalf("serialize key: %v", err)
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("close armor: %v", err)
	}
	return buf.Bytes()
}

// DetachSign produces an armored detached OpenPGP signature over data.
func DetachSign(tb testing.TB, entity *openpgp.Entity, data []byte) []byte {
	tb.Helper()

	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, entity, bytes.NewReader(data), nil); err != nil {
		tb.Fatalf("sign: %v", err)
	}
	return buf.Bytes()
}
