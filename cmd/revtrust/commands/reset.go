package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/meigma/revtrust"
	"github.com/meigma/revtrust/vcs"
)

var errNotForced = errors.New("reset discards uncommitted changes; pass --force to proceed")

func newResetCommand(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "reset <path> <revision>",
		Short: "Hard reset a repository to a revision",
		Long: `reset moves the current branch, the index and the working tree of the
repository to the given revision. Uncommitted changes are discarded.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if !force {
				return errNotForced
			}
			path, err := repoPath(args[:1])
			if err != nil {
				return err
			}
			repo, err := vcs.Open(path)
			if err != nil {
				return err
			}
			a.logger.Warn("hard reset", slog.String("repo", repo.Path()), slog.String("revision", args[1]))
			if err := revtrust.ResetTo(repo, args[1]); err != nil {
				return err
			}
			info, err := revtrust.InspectHead(repo)
			if err != nil {
				return fmt.Errorf("inspect after reset: %w", err)
			}
			return a.render(revisionReport(repo.Path(), info))
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "discard uncommitted changes")
	return cmd
}
