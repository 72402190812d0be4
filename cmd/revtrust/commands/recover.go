package commands

import (
	"github.com/spf13/cobra"

	"github.com/meigma/revtrust/vcs"
)

func newRecoverCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recover [path]",
		Short: "Reset a repository to its last trusted revision",
		Long: `recover hard resets the repository to the revision pinned by the last
successful check. Uncommitted changes are discarded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := repoPath(args)
			if err != nil {
				return err
			}
			c, err := a.checker()
			if err != nil {
				return err
			}
			repo, err := vcs.Open(path)
			if err != nil {
				return err
			}
			info, err := c.Recover(cmd.Context(), repo)
			if err != nil {
				return err
			}
			return a.render(revisionReport(repo.Path(), info))
		},
	}
}
