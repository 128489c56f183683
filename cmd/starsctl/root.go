package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Clark-Hu/repo-stars/internal/config"
	"github.com/Clark-Hu/repo-stars/internal/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	owner   string
	repo    string
	envFile string
	verbose bool

	cfg    config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "starsctl",
		Short: "Show a GitHub repository's star count",
		Long: `starsctl resolves the star count of the configured repository the same
way the landing page does: a single API call, with the configured fallback
rendered whenever the count cannot be retrieved.

Configuration comes from the environment (and a .env file when present);
--owner and --repo override REPO_OWNER and REPO_NAME.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.owner, "owner", "", "repository owner (overrides REPO_OWNER)")
	flags.StringVar(&opts.repo, "repo", "", "repository name (overrides REPO_NAME)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log diagnostics to stderr")

	cmd.AddCommand(newFetchCmd(opts), newLinkCmd(opts), newHistoryCmd(opts))
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return err
	}
	if o.owner != "" {
		if err := os.Setenv("REPO_OWNER", o.owner); err != nil {
			return err
		}
	}
	if o.repo != "" {
		if err := os.Setenv("REPO_NAME", o.repo); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := "error"
	if o.verbose {
		level = "debug"
	}
	o.logger = logging.New(cmd.ErrOrStderr(), level, "console")
	return nil
}
