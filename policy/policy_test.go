package policy

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/revtrust"
	"github.com/meigma/revtrust/internal/testutil"
	"github.com/meigma/revtrust/signature"
	"github.com/meigma/revtrust/vcs"
	verifyopenpgp "github.com/meigma/revtrust/verify/openpgp"
)

var (
	errFail = errors.New("fail")
	pass    = revtrust.PolicyFunc(func(context.Context, revtrust.PolicyRequest) error { return nil })
	fail    = revtrust.PolicyFunc(func(context.Context, revtrust.PolicyRequest) error { return errFail })
)

// request builds a PolicyRequest for the head of a fresh memory repository.
func request(t *testing.T, key *openpgp.Entity, when time.Time) (revtrust.PolicyRequest, *git.Repository) {
	t.Helper()

	gitRepo := testutil.InitMemoryRepo(t)
	testutil.Commit(t, gitRepo, "Update advisory DB", testutil.CommitOptions{SignKey: key, When: when})

	info, err := revtrust.InspectHead(vcs.Wrap(gitRepo, "mem"))
	require.NoError(t, err)
	return revtrust.PolicyRequest{Path: "mem", Revision: info, Now: time.Now()}, gitRepo
}

func TestRequireAll(t *testing.T) {
	t.Parallel()

	req, _ := request(t, nil, time.Now())
	ctx := context.Background()

	require.NoError(t, RequireAll().Evaluate(ctx, req))
	require.NoError(t, RequireAll(pass, nil, pass).Evaluate(ctx, req))

	var calls int
	counting := revtrust.PolicyFunc(func(context.Context, revtrust.PolicyRequest) error {
		calls++
		return nil
	})
	err := RequireAll(pass, fail, counting).Evaluate(ctx, req)
	require.ErrorIs(t, err, errFail)
	assert.Contains(t, err.Error(), "policy 2")
	assert.Zero(t, calls, "evaluation stops at the first failure")
}

func TestRequireAny(t *testing.T) {
	t.Parallel()

	req, _ := request(t, nil, time.Now())
	ctx := context.Background()

	require.NoError(t, RequireAny(fail, pass).Evaluate(ctx, req))

	err := RequireAny(fail, fail).Evaluate(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 policies failed")

	err = RequireAny(nil).Evaluate(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least one policy")
}

func TestMaxAge(t *testing.T) {
	t.Parallel()

	req, _ := request(t, nil, time.Now().AddDate(0, 0, -10))
	ctx := context.Background()

	require.NoError(t, MaxAge(11).Evaluate(ctx, req))
	require.ErrorIs(t, MaxAge(7).Evaluate(ctx, req), revtrust.ErrStale)
}

func TestRequireSignedAndFormat(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	unsigned, _ := request(t, nil, time.Now())
	signed, _ := request(t, testutil.SigningKey(t), time.Now())

	require.ErrorIs(t, RequireSigned().Evaluate(ctx, unsigned), ErrUnsigned)
	require.NoError(t, RequireSigned().Evaluate(ctx, signed))

	require.ErrorIs(t, RequireFormat(signature.FormatOpenPGP).Evaluate(ctx, unsigned), ErrUnsigned)
	require.NoError(t, RequireFormat(signature.FormatSSH, signature.FormatOpenPGP).Evaluate(ctx, signed))
	require.ErrorIs(t, RequireFormat(signature.FormatSSH).Evaluate(ctx, signed), ErrFormatNotAllowed)
}

func TestRequireAuthor(t *testing.T) {
	t.Parallel()

	req, _ := request(t, nil, time.Now())
	ctx := context.Background()

	tests := []struct {
		name     string
		patterns []string
		wantErr  error
	}{
		{name: "exact", patterns: []string{testutil.AuthorName + " <" + testutil.AuthorEmail + ">"}},
		{name: "domain glob", patterns: []string{"* <*@advisories.example>"}},
		{name: "second pattern", patterns: []string{"Mallory *", "Advisory Bot *"}},
		{name: "no match", patterns: []string{"* <*@evil.example>"}, wantErr: ErrAuthorNotAllowed},
		{name: "no patterns", wantErr: ErrAuthorNotAllowed},
		{name: "bad pattern", patterns: []string{"[unclosed"}, wantErr: ErrBadPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := RequireAuthor(tt.patterns...).Evaluate(ctx, req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRequireVerified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	trusted := testutil.SigningKey(t)
	stranger := testutil.SigningKey(t)

	v, err := verifyopenpgp.NewVerifier(bytes.NewReader(testutil.ArmoredPublicKey(t, trusted)))
	require.NoError(t, err)
	policy := RequireVerified(v)

	good, _ := request(t, trusted, time.Now())
	require.NoError(t, policy.Evaluate(ctx, good))

	bad, _ := request(t, stranger, time.Now())
	err = policy.Evaluate(ctx, bad)
	require.ErrorIs(t, err, ErrNotVerified)
	require.ErrorIs(t, err, verifyopenpgp.ErrVerification)

	unsigned, _ := request(t, nil, time.Now())
	require.ErrorIs(t, policy.Evaluate(ctx, unsigned), ErrUnsigned)
}

func TestChecker_WithComposedPolicies(t *testing.T) {
	t.Parallel()

	key := testutil.SigningKey(t)
	v, err := verifyopenpgp.NewVerifier(bytes.NewReader(testutil.ArmoredPublicKey(t, key)))
	require.NoError(t, err)

	c, err := revtrust.New(
		revtrust.WithMaxAgeDays(30),
		revtrust.WithPolicy(RequireAll(
			RequireFormat(signature.FormatOpenPGP),
			RequireVerified(v),
			RequireAuthor("Advisory Bot <*>"),
		)),
	)
	require.NoError(t, err)

	_, gitRepo := request(t, key, time.Now().Add(-time.Hour))
	verdict, err := c.Check(context.Background(), vcs.Wrap(gitRepo, "mem"))
	require.NoError(t, err)
	assert.True(t, verdict.Trusted(), "%v", verdict.Reason)

	testutil.Commit(t, gitRepo, "Sneaky unsigned change", testutil.CommitOptions{})
	verdict, err = c.Check(context.Background(), vcs.Wrap(gitRepo, "mem"))
	require.NoError(t, err)
	assert.False(t, verdict.Trusted())
	require.ErrorIs(t, verdict.Err(), revtrust.ErrPolicyViolation)
	assert.True(t, strings.Contains(verdict.Reason.Error(), "policy 1"))
}
