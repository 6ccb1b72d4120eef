package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/haven/internal/cli/formatter"
	"github.com/alexanderramin/haven/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update a user's profile",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileSetCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			p, err := app.Profiles.GetProfile(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), p, func() string {
				return formatter.FormatProfile(p, app.now())
			})
		},
	}

	addUserFlag(cmd.Flags(), &user)
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	var user, approach, mood string
	var wellness float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; unset flags keep their current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if !fs.Changed("approach") && !fs.Changed("wellness") && !fs.Changed("mood") {
				return fmt.Errorf("nothing to update: pass --approach, --wellness or --mood")
			}

			p, err := app.Profiles.GetProfile(cmd.Context(), id)
			if err != nil {
				return err
			}
			if fs.Changed("approach") {
				p.Approach = domain.Approach(strings.ToLower(strings.TrimSpace(approach)))
			}
			if fs.Changed("wellness") {
				p.WellnessScore = wellness
			}
			if fs.Changed("mood") {
				p.RecentMood = strings.ToLower(strings.TrimSpace(mood))
			}

			if err := app.Profiles.SetProfile(cmd.Context(), p); err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), p, func() string {
				return formatter.FormatProfile(p, app.now())
			})
		},
	}

	fs := cmd.Flags()
	addUserFlag(fs, &user)
	fs.StringVar(&approach, "approach", "", "western, eastern or hybrid")
	fs.Float64Var(&wellness, "wellness", 0, "Wellness score, 0-100")
	fs.StringVar(&mood, "mood", "", "Most recent mood")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
