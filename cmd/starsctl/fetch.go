package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/repo-stars/internal/app"
	"github.com/Clark-Hu/repo-stars/internal/stars"
)

type fetchOutput struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Stars     *int64 `json:"stars"`
	Text      string `json:"text"`
	Live      bool   `json:"live"`
	ErrorKind string `json:"errorKind,omitempty"`
}

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		asJSON bool
		record bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: `Print "{count} stars on GitHub"`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var recorder stars.Recorder
			if record {
				st, repo, err := app.OpenStore(ctx, opts.cfg, opts.logger)
				if err != nil {
					return err
				}
				defer st.Close()
				if repo != nil {
					recorder = repo.Snapshots
				}
			}

			display, err := app.NewDisplay(opts.cfg, recorder, opts.logger)
			if err != nil {
				return err
			}

			if !asJSON {
				display.Initialize(ctx, stars.WriterSurface{W: cmd.OutOrStdout()})
				return nil
			}

			surface := &stars.TextSurface{}
			res := display.Initialize(ctx, surface)
			out := fetchOutput{
				Owner:     res.Repo.Owner,
				Repo:      res.Repo.Name,
				Text:      surface.Text(),
				Live:      res.Live,
				ErrorKind: res.ErrorKind,
			}
			if n, ok := res.Count.Value(); ok && res.Live {
				out.Stars = &n
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")
	cmd.Flags().BoolVar(&record, "record", false, "store the resolution when DB_URL is set")
	return cmd
}
