package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/combat-tiers/internal/model"
	"github.com/iliyamo/combat-tiers/internal/tier"
)

// newScoreCmd previews points and title for a tier pair without saving
// anything, like the live preview on the player form.
func (a *app) newScoreCmd() *cobra.Command {
	var tierCode, maceCode string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Preview points and title for a tier pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := model.PlayerInput{PlayerName: "-", Region: "-", Tier: tierCode, Macetier: maceCode}.FieldErrors()
			if len(errs) > 0 {
				a.output(cmd).PrintFieldErrors(errs)
				return errInvalidForm
			}
			a.output(cmd).Print(tier.Preview(tierCode, maceCode))
			return nil
		},
	}

	cmd.Flags().StringVar(&tierCode, "tier", "", "Combat tier code")
	cmd.Flags().StringVar(&maceCode, "macetier", "", "Mace tier code")
	return cmd
}
