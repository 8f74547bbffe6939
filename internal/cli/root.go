// Package cli implements tierctl, the operator client for the Player API.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/combat-tiers/internal/auth"
	"github.com/iliyamo/combat-tiers/internal/client"
)

var errLoginRequired = errors.New("login required: run 'tierctl login'")

type app struct {
	cfg *Config
	api *client.Client
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: DefaultConfig()}

	rootCmd := &cobra.Command{
		Use:   "tierctl",
		Short: "Operator client for the combat tier leaderboard",
		Long: `tierctl manages the combat tier leaderboard through its JSON API.

Log in once with 'tierctl login'; the session is kept in a signed token file
and is required by the player commands.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.api = client.New(a.cfg.ServerURL)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfg.ServerURL, "server", a.cfg.ServerURL, "API base URL (env: TIERCTL_SERVER)")
	flags.StringVar(&a.cfg.SessionFile, "session-file", a.cfg.SessionFile, "Session token path (env: TIERCTL_SESSION_FILE)")
	flags.StringVar(&a.cfg.SecretFile, "secret-file", a.cfg.SecretFile, "Session signing secret path (env: TIERCTL_SECRET_FILE)")
	flags.StringVar(&a.cfg.Credentials, "credentials", a.cfg.Credentials, "Operator credentials file (env: TIERCTL_CREDENTIALS)")
	flags.StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(a.newLoginCmd())
	rootCmd.AddCommand(a.newLogoutCmd())
	rootCmd.AddCommand(a.newPlayersCmd())
	rootCmd.AddCommand(a.newScoreCmd())
	rootCmd.AddCommand(a.newHealthCmd())
	rootCmd.AddCommand(a.newWatchCmd())
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func (a *app) output(cmd *cobra.Command) *Output {
	return NewOutput(a.cfg.Output, cmd.OutOrStdout())
}

// requireSession is the login gate in front of every player command.
func (a *app) requireSession() (auth.Session, error) {
	secret, err := a.cfg.SessionSecret()
	if err != nil {
		return auth.Session{}, err
	}
	s, err := auth.LoadSession(a.cfg.SessionFile, secret)
	if errors.Is(err, auth.ErrNoSession) {
		return auth.Session{}, errLoginRequired
	}
	return s, err
}
