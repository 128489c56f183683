package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/repo-stars/internal/app"
	"github.com/Clark-Hu/repo-stars/internal/repository"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded star count snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.DBURL == "" {
				return errors.New("history requires DB_URL")
			}
			st, repo, err := app.OpenStore(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			target := app.Repo(opts.cfg)
			result, err := repo.Snapshots.List(cmd.Context(), repository.SnapshotListFilters{
				Owner: target.Owner,
				Repo:  target.Name,
				Limit: limit,
			})
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}

			table := tablewriter.NewTable(cmd.OutOrStdout())
			table.Header("Resolved", "Text", "Live", "Error")
			for _, snap := range result.Items {
				kind := "-"
				if snap.ErrorKind != nil {
					kind = *snap.ErrorKind
				}
				if err := table.Append(snap.ResolvedAt.Format(time.RFC3339), snap.Display, fmt.Sprint(snap.Live), kind); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of snapshots to show (max 100)")
	return cmd
}
