package cli

import (
	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRecommendCmd(a *App) *cobra.Command {
	var req app.RecommendRequest

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank support recommendations for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(req.UserID)
			if err != nil {
				return err
			}
			req.UserID = id
			if req.AvailableMinutes, err = optionalInt(cmd.Flags(), "minutes"); err != nil {
				return err
			}

			resp, err := a.Recommend.RecommendForUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), resp, func() string {
				return formatter.FormatRecommendations(resp)
			})
		},
	}

	fs := cmd.Flags()
	addUserFlag(fs, &req.UserID)
	fs.IntVarP(&req.MaxItems, "max", "n", 0, "Maximum number of items (default from HAVEN_DEFAULT_MAX_ITEMS)")
	fs.Int("minutes", 0, "Minutes available right now")
	fs.StringVar(&req.TimeOfDay, "time-of-day", "", "morning, afternoon, evening or night")
	fs.StringVar(&req.Environment, "environment", "", "Where the user is, e.g. home or work")
	fs.BoolVar(&req.ImmediateNeed, "now", false, "The user needs relief immediately")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
