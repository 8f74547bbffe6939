package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/combat-tiers/internal/auth"
)

func (a *app) newLoginCmd() *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as the leaderboard operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}

			v, err := a.cfg.Verifier()
			if err != nil {
				return err
			}
			if errs := auth.CheckLogin(v, email, password); !errs.OK() {
				out := a.output(cmd)
				if errs.Email != "" {
					out.PrintMessage("email: " + errs.Email)
				}
				if errs.Password != "" {
					out.PrintMessage("password: " + errs.Password)
				}
				return fmt.Errorf("login failed")
			}

			secret, err := a.cfg.SessionSecret()
			if err != nil {
				return err
			}
			s, err := auth.NewSession(secret, email, a.cfg.SessionTTL)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}
			if err := auth.SaveSession(a.cfg.SessionFile, s); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			a.output(cmd).PrintMessage(fmt.Sprintf("Logged in as %s until %s", s.Email, s.Exp.Local().Format("2006-01-02 15:04")))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Operator email")
	cmd.Flags().StringVar(&password, "password", "", "Operator password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.ClearSession(a.cfg.SessionFile); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			a.output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}
