package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/repo-stars/internal/app"
)

func newLinkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Print the repository page URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.Repo(opts.cfg).HTMLURL(opts.cfg.GitHubURL))
			return err
		},
	}
}
