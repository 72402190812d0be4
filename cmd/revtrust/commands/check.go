package commands

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/revtrust"
	"github.com/meigma/revtrust/vcs"
)

func newCheckCommand(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check whether repositories can be trusted",
		Long: `check inspects the head revision of each repository and reports whether it
is trusted. Trusted revisions are pinned so that recover can return to them.
Paths inside the same worktree are checked once. The exit status is non-zero
if any repository is untrusted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			c, err := a.checker()
			if err != nil {
				return err
			}
			reports, err := checkAll(cmd.Context(), c, args, workers, a.logger)
			if err != nil {
				return err
			}
			if err := a.renderList(reports); err != nil {
				return err
			}
			for _, r := range reports {
				if r.State != revtrust.StateTrusted.String() {
					return errUntrusted
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "repositories checked concurrently")
	return cmd
}

// target is one repository to check, or the report explaining why it could
// not be opened.
type target struct {
	repo   *vcs.GitRepository
	report report
}

// openTargets opens every path and drops paths that resolve to a worktree
// already listed, keeping the first occurrence.
func openTargets(paths []string) []target {
	targets := make([]target, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, arg := range paths {
		path, err := repoPath([]string{arg})
		if err != nil {
			targets = append(targets, target{report: errorReport(arg, err)})
			continue
		}
		repo, err := vcs.Open(path)
		if err != nil {
			targets = append(targets, target{report: errorReport(path, err)})
			continue
		}
		if seen[repo.Path()] {
			continue
		}
		seen[repo.Path()] = true
		targets = append(targets, target{repo: repo})
	}
	return targets
}

// checkAll checks every repository concurrently. Each goroutine owns its
// repository exclusively. Per-repository failures are reported, not
// returned; only cancellation aborts the run.
func checkAll(ctx context.Context, c *revtrust.Checker, paths []string, workers int, logger *slog.Logger) ([]report, error) {
	targets := openTargets(paths)
	reports := make([]report, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, t := range targets {
		if t.repo == nil {
			reports[i] = t.report
			continue
		}
		g.Go(func() error {
			v, err := c.Check(ctx, t.repo)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("check failed", slog.String("repo", t.repo.Path()), slog.Any("error", err))
				reports[i] = errorReport(t.repo.Path(), err)
				return nil
			}
			reports[i] = verdictReport(t.repo.Path(), v)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	return reports, nil
}
