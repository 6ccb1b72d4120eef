package cli

import (
	"github.com/alexanderramin/haven/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDetectCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Assess a user's crisis risk from their stored history",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			result, err := app.Crisis.DetectForUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), result, func() string {
				return formatter.FormatDetection(id, result) + "\n"
			})
		},
	}

	addUserFlag(cmd.Flags(), &user)
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newCheckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "Screen a single message for crisis language",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd.Flags(), "text", args)
			if err != nil {
				return err
			}
			result := app.Crisis.CheckMessage(cmd.Context(), text)
			return app.render(cmd.OutOrStdout(), result, func() string {
				return formatter.FormatCheck(result)
			})
		},
	}

	cmd.Flags().String("text", "", "Message text")

	return cmd
}
