package commands

import (
	"github.com/spf13/cobra"

	"github.com/meigma/revtrust"
	"github.com/meigma/revtrust/vcs"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [path]",
		Short: "Print the head revision of a repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path, err := repoPath(args)
			if err != nil {
				return err
			}
			repo, err := vcs.Open(path)
			if err != nil {
				return err
			}
			info, err := revtrust.InspectHead(repo)
			if err != nil {
				return err
			}
			return a.render(revisionReport(repo.Path(), info))
		},
	}
}
