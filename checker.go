package revtrust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	digest "github.com/opencontainers/go-digest"

	"github.com/meigma/revtrust/pin"
	"github.com/meigma/revtrust/vcs"
)

// Checker runs the trust lifecycle for a repository: inspect the head
// revision, decide whether it is trusted, and reset to the last trusted
// revision when it is not.
//
// A Checker is safe for concurrent use on different repositories. The
// repository itself must be owned by one goroutine at a time.
type Checker struct {
	maxAgeDays       uint32
	requireSignature bool
	now              func() time.Time
	policies         []Policy
	pins             pin.Store
	logger           *slog.Logger
}

// New creates a Checker with the given options.
func New(opts ...Option) (*Checker, error) {
	c := &Checker{
		maxAgeDays: DefaultMaxAgeDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("revtrust: %w", err)
		}
	}
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Checker) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// MaxAgeDays returns the configured staleness threshold.
func (c *Checker) MaxAgeDays() uint32 {
	return c.maxAgeDays
}

// Check inspects the head of repo and evaluates it.
//
// Structural problems with the repository are returned as errors and
// produce no verdict. Otherwise the freshness check, the signature
// requirement and every policy are evaluated, and all failures are
// collected in the verdict. A trusted revision is pinned in the pin store.
func (c *Checker) Check(ctx context.Context, repo vcs.Repository) (*Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := c.log().With(slog.String("repo", repo.Path()))

	info, err := InspectHead(repo)
	if err != nil {
		log.Warn("inspect head failed", slog.Any("error", err))
		return nil, err
	}
	log.Debug("inspected head",
		slog.String("revision", info.ID()),
		slog.Time("time", info.Time()),
		slog.Bool("signed", info.Signed()))

	now := c.now()
	var failures []error

	if err := EnsureFresh(info, c.maxAgeDays, now); err != nil {
		failures = append(failures, err)
	}
	if c.requireSignature && !info.Signed() {
		failures = append(failures, fmt.Errorf("%w: %s", ErrUnsigned, info.ID()))
	}

	req := PolicyRequest{Path: repo.Path(), Revision: info, Now: now}
	for i, p := range c.policies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.Evaluate(ctx, req); err != nil {
			log.Debug("policy rejected revision", slog.Int("policy_index", i), slog.Any("error", err))
			failures = append(failures, fmt.Errorf("%w: policy %d: %w", ErrPolicyViolation, i+1, err))
		}
	}

	if len(failures) > 0 {
		reason := errors.Join(failures...)
		log.Warn("revision untrusted",
			slog.String("revision", info.ID()),
			slog.String("reason", reason.Error()))
		return &Verdict{State: StateUntrusted, Revision: info, Reason: reason}, nil
	}

	if err := c.pin(repo.Path(), info, now); err != nil {
		return nil, err
	}
	log.Info("revision trusted", slog.String("revision", info.ID()))
	return &Verdict{State: StateTrusted, Revision: info}, nil
}

// Recover hard resets repo to its pinned known-good revision and returns the
// re-inspected head.
//
// This discards uncommitted changes in the working tree. If the pinned
// revision was signed, its signed bytes must still hash to the pinned
// digest.
func (c *Checker) Recover(ctx context.Context, repo vcs.Repository) (*RevisionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.pins == nil {
		return nil, fmt.Errorf("%w: no pin store configured", ErrNoPin)
	}
	rec, ok := c.pins.Get(repo.Path())
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoPin, repo.Path())
	}

	log := c.log().With(slog.String("repo", repo.Path()))
	log.Warn("resetting to pinned revision", slog.String("revision", rec.Revision))

	if err := ResetTo(repo, rec.Revision); err != nil {
		return nil, err
	}

	info, err := InspectHead(repo)
	if err != nil {
		return nil, err
	}
	if info.ID() != rec.Revision {
		return nil, &RepositoryError{
			Op:       "recover",
			Path:     repo.Path(),
			Revision: info.ID(),
			Msg:      fmt.Sprintf("head is %s after reset to %s", info.ID(), rec.Revision),
		}
	}
	if !rec.MatchesPayload(info.RawSignedBytes()) {
		return nil, fmt.Errorf("%w: signed payload of %s no longer matches pinned digest %s",
			ErrUntrusted, rec.Revision, rec.PayloadDigest)
	}
	return info, nil
}

// Pinned returns the known-good record for repo, if any.
func (c *Checker) Pinned(repo vcs.Repository) (pin.Record, bool) {
	if c.pins == nil {
		return pin.Record{}, false
	}
	return c.pins.Get(repo.Path())
}

func (c *Checker) pin(key string, info *RevisionInfo, now time.Time) error {
	if c.pins == nil {
		return nil
	}
	if key == "" {
		c.log().Debug("repository has no path, not pinning", slog.String("revision", info.ID()))
		return nil
	}
	rec := pin.Record{Revision: info.ID(), PinnedAt: now.UTC()}
	if info.Signed() {
		rec.PayloadDigest = digest.FromBytes(info.RawSignedBytes())
	}
	if err := c.pins.Put(key, rec); err != nil {
		return fmt.Errorf("revtrust: pin %s: %w", info.ID(), err)
	}
	return nil
}
