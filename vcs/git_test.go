package vcs_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/revtrust/internal/testutil"
	"github.com/meigma/revtrust/vcs"
)

func TestGitRepository_ResolveHead_Unborn(t *testing.T) {
	t.Parallel()

	_, dir := testutil.InitRepo(t)
	repo, err := vcs.Open(dir)
	require.NoError(t, err)

	_, err = repo.ResolveHead()
	require.ErrorIs(t, err, vcs.ErrNoRefTarget)
	assert.Contains(t, err.Error(), dir)
}

func TestGitRepository_LoadCommit(t *testing.T) {
	t.Parallel()

	gitRepo, dir := testutil.InitRepo(t)
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600))
	id := testutil.Commit(t, gitRepo, "Update advisory DB\n\nAdds three advisories.", testutil.CommitOptions{When: when})

	repo, err := vcs.Open(dir)
	require.NoError(t, err)

	head, err := repo.ResolveHead()
	require.NoError(t, err)
	assert.Equal(t, id, head)

	c, err := repo.LoadCommit(head)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, testutil.AuthorName+" <"+testutil.AuthorEmail+">", c.Author)
	assert.True(t, strings.HasPrefix(c.Message, "Update advisory DB"))
	assert.True(t, when.Equal(c.Time))
}

func TestGitRepository_LoadCommit_Errors(t *testing.T) {
	t.Parallel()

	_, dir := testutil.InitRepo(t)
	repo, err := vcs.Open(dir)
	require.NoError(t, err)

	_, err = repo.LoadCommit(strings.Repeat("ab", 20))
	require.ErrorIs(t, err, vcs.ErrObjectNotFound)

	_, err = repo.LoadCommit("not-a-revision")
	require.ErrorIs(t, err, vcs.ErrInvalidRevision)

	_, err = repo.LoadCommit(strings.Repeat("a", 64))
	require.ErrorIs(t, err, vcs.ErrInvalidRevision)
}

func TestGitRepository_ExtractSignature_Unsigned(t *testing.T) {
	t.Parallel()

	gitRepo := testutil.InitMemoryRepo(t)
	id := testutil.Commit(t, gitRepo, "Unsigned", testutil.CommitOptions{})

	_, _, err := vcs.Wrap(gitRepo, "").ExtractSignature(id)
	require.ErrorIs(t, err, vcs.ErrNoSignature)
}

func TestGitRepository_ExtractSignature_Signed(t *testing.T) {
	t.Parallel()

	key := testutil.SigningKey(t)
	gitRepo := testutil.InitMemoryRepo(t)
	id := testutil.Commit(t, gitRepo, "Signed update", testutil.CommitOptions{SignKey: key})

	sig, signed, err := vcs.Wrap(gitRepo, "").ExtractSignature(id)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(sig, []byte("-----BEGIN PGP SIGNATURE-----")))
	assert.NotContains(t, string(signed), "gpgsig")
	assert.Contains(t, string(signed), "Signed update")

	keyring := openpgp.EntityList{key}
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(signed), bytes.NewReader(sig), nil)
	require.NoError(t, err, "signed bytes must be exactly what the signature covers")
}

func TestGitRepository_HardReset(t *testing.T) {
	t.Parallel()

	gitRepo, dir := testutil.InitRepo(t)
	first := testutil.Commit(t, gitRepo, "First", testutil.CommitOptions{Content: "v1\n"})
	testutil.Commit(t, gitRepo, "Second", testutil.CommitOptions{Content: "v2\n"})

	path := filepath.Join(dir, "advisories.toml")
	require.NoError(t, os.WriteFile(path, []byte("local edit\n"), 0o600))

	repo, err := vcs.Open(dir)
	require.NoError(t, err)
	require.NoError(t, repo.HardReset(first))

	head, err := repo.ResolveHead()
	require.NoError(t, err)
	assert.Equal(t, first, head)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v1\n", string(data))
}

func TestGitRepository_HardReset_UnknownRevision(t *testing.T) {
	t.Parallel()

	gitRepo := testutil.InitMemoryRepo(t)
	testutil.Commit(t, gitRepo, "Only", testutil.CommitOptions{})

	err := vcs.Wrap(gitRepo, "").HardReset(strings.Repeat("0", 39) + "1")
	require.ErrorIs(t, err, vcs.ErrObjectNotFound)
}

func TestOpen_NotARepository(t *testing.T) {
	t.Parallel()

	_, err := vcs.Open(t.TempDir())
	require.Error(t, err)
}

func TestOpen_PathIsWorktreeRoot(t *testing.T) {
	t.Parallel()

	gitRepo, dir := testutil.InitRepo(t)
	id := testutil.Commit(t, gitRepo, "Add advisories", testutil.CommitOptions{File: "advisories/2026.toml"})

	for _, p := range []string{dir, filepath.Join(dir, "advisories")} {
		repo, err := vcs.Open(p)
		require.NoError(t, err)
		assert.Equal(t, dir, repo.Path())

		head, err := repo.ResolveHead()
		require.NoError(t, err)
		assert.Equal(t, id, head)
	}
}
