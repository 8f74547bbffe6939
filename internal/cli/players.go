package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iliyamo/combat-tiers/internal/model"
)

var errInvalidForm = errors.New("player form has errors")

func (a *app) newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "List and manage players (login required)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if root := cmd.Root(); root.PersistentPreRunE != nil {
				if err := root.PersistentPreRunE(cmd, args); err != nil {
					return err
				}
			}
			_, err := a.requireSession()
			return err
		},
	}

	cmd.AddCommand(a.newPlayersListCmd())
	cmd.AddCommand(a.newPlayersAddCmd())
	cmd.AddCommand(a.newPlayersEditCmd())
	cmd.AddCommand(a.newPlayersDeleteCmd())
	return cmd
}

func (a *app) newPlayersListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := a.api.ListPlayers(cmd.Context())
			if err != nil {
				return err
			}
			a.output(cmd).Print(FilterPlayers(players, search))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name, region, title or tier")
	return cmd
}

// formFlags binds the player form fields to command flags.
type formFlags struct {
	in model.PlayerInput
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in.PlayerName, "name", "", "Player name")
	cmd.Flags().StringVar(&f.in.Tier, "tier", "", "Combat tier code (LT5..HT1)")
	cmd.Flags().StringVar(&f.in.Macetier, "macetier", "", "Mace tier code (LT5..HT1)")
	cmd.Flags().StringVar(&f.in.Region, "region", "", "Region")
}

// overlay copies only the flags the operator actually set onto base.
func (f *formFlags) overlay(cmd *cobra.Command, base model.PlayerInput) model.PlayerInput {
	if cmd.Flags().Changed("name") {
		base.PlayerName = f.in.PlayerName
	}
	if cmd.Flags().Changed("tier") {
		base.Tier = f.in.Tier
	}
	if cmd.Flags().Changed("macetier") {
		base.Macetier = f.in.Macetier
	}
	if cmd.Flags().Changed("region") {
		base.Region = f.in.Region
	}
	return base
}

// checkForm runs the shared validation rules and prints every failure.
func (a *app) checkForm(cmd *cobra.Command, in model.PlayerInput) error {
	if errs := in.FieldErrors(); len(errs) > 0 {
		a.output(cmd).PrintFieldErrors(errs)
		return errInvalidForm
	}
	return nil
}

func (a *app) newPlayersAddCmd() *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := form.in
			if err := a.checkForm(cmd, in); err != nil {
				return err
			}
			res, err := a.api.CreatePlayer(cmd.Context(), in.Trimmed())
			if err != nil {
				return err
			}
			a.output(cmd).Print(res)
			return nil
		},
	}

	form.register(cmd)
	return cmd
}

func (a *app) newPlayersEditCmd() *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a player; unset flags keep their stored values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}
			current, err := a.api.FindPlayer(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := form.overlay(cmd, formFromPlayer(current))
			if err := a.checkForm(cmd, in); err != nil {
				return err
			}
			res, err := a.api.UpdatePlayer(cmd.Context(), id, in.Trimmed())
			if err != nil {
				return err
			}
			a.output(cmd).Print(res)
			return nil
		},
	}

	form.register(cmd)
	return cmd
}

func (a *app) newPlayersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !a.confirmDelete(cmd, id) {
					a.output(cmd).PrintMessage("Cancelled")
					return nil
				}
			}
			res, err := a.api.DeletePlayer(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.output(cmd).PrintMessage(res.Message)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (a *app) confirmDelete(cmd *cobra.Command, id int64) bool {
	name := fmt.Sprintf("player #%d", id)
	if p, err := a.api.FindPlayer(cmd.Context(), id); err == nil {
		name = p.PlayerName
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete %s? [y/N] ", name)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func parsePlayerID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid player ID %q", raw)
	}
	return id, nil
}
