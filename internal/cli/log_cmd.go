package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/haven/internal/domain"
	"github.com/spf13/cobra"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record user history used by detection",
	}

	cmd.AddCommand(
		newLogMessageCmd(app),
		newLogMoodCmd(app),
		newLogAssessmentCmd(app),
		newLogEngagementCmd(app),
	)

	return cmd
}

func newLogMessageCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "message [text...]",
		Short: "Record a message the user wrote",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			text, err := textArg(cmd.Flags(), "text", args)
			if err != nil {
				return err
			}
			if err := app.Signals.RecordMessage(cmd.Context(), id, domain.UserMessage{Text: text, Timestamp: app.now()}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded message for %s\n", id)
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &user)
	cmd.Flags().String("text", "", "Message text")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newLogMoodCmd(app *App) *cobra.Command {
	var user, mood string

	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Record a mood check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			if err := app.Signals.RecordMood(cmd.Context(), id, domain.MoodEntry{Mood: mood, Timestamp: app.now()}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded mood %q for %s\n", strings.ToLower(strings.TrimSpace(mood)), id)
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &user)
	cmd.Flags().StringVar(&mood, "mood", "", "Mood label, e.g. anxious or calm")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("mood")

	return cmd
}

func newLogAssessmentCmd(app *App) *cobra.Command {
	var user, kind string
	var score float64

	cmd := &cobra.Command{
		Use:   "assessment",
		Short: "Record a completed assessment score (0-100)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			a := domain.Assessment{Type: kind, Score: score, CompletedAt: app.now()}
			if err := app.Signals.RecordAssessment(cmd.Context(), id, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s assessment (%.0f) for %s\n", kind, score, id)
			return nil
		},
	}

	addUserFlag(cmd.Flags(), &user)
	cmd.Flags().StringVar(&kind, "type", "", "Assessment type, e.g. anxiety or depression")
	cmd.Flags().Float64Var(&score, "score", 0, "Normalized score, 0-100")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newLogEngagementCmd(app *App) *cobra.Command {
	var user, contentID string
	var completed bool

	cmd := &cobra.Command{
		Use:   "engagement",
		Short: "Record how the user engaged with an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := userID(user)
			if err != nil {
				return err
			}
			e := domain.Engagement{ContentID: contentID, Completed: completed, EngagedAt: app.now()}
			fs := cmd.Flags()
			if e.Effectiveness, err = optionalInt(fs, "effectiveness"); err != nil {
				return err
			}
			if e.Rating, err = optionalInt(fs, "rating"); err != nil {
				return err
			}
			if e.TimeSpentSec, err = optionalInt(fs, "seconds"); err != nil {
				return err
			}

			if err := app.Signals.RecordEngagement(cmd.Context(), id, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded engagement for %s\n", id)
			return nil
		},
	}

	fs := cmd.Flags()
	addUserFlag(fs, &user)
	fs.StringVar(&contentID, "content", "", "Catalog item ID")
	fs.BoolVar(&completed, "completed", false, "The user finished the item")
	fs.Int("effectiveness", 0, "Self-reported effectiveness, 1-10")
	fs.Int("rating", 0, "Rating, 1-5")
	fs.Int("seconds", 0, "Time spent in seconds")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
