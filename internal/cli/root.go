package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/haven/internal/app"
	"github.com/alexanderramin/haven/internal/cli/formatter"
	"github.com/alexanderramin/haven/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all use cases used by CLI commands.
type App struct {
	Crisis    app.CrisisDetectionUseCase
	Recommend app.RecommendationUseCase
	Signals   app.SignalLogUseCase
	Profiles  app.ProfileUseCase
	Import    service.ImportService

	// Handler and HTTPAddr back `haven serve`.
	Handler  http.Handler
	HTTPAddr string

	Logger *slog.Logger

	// IsTerminal reports whether stdout is a terminal. Nil means it is not.
	IsTerminal func() bool
	Now        func() time.Time

	jsonOutput bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// NewRootCmd creates the top-level "haven" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "haven",
		Short:         "Crisis detection and support recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			formatter.SetPlain(app.IsTerminal == nil || !app.IsTerminal())
		},
	}
	addOutputFlags(root.PersistentFlags(), &app.jsonOutput)

	root.AddCommand(
		newDetectCmd(app),
		newCheckCmd(app),
		newRecommendCmd(app),
		newLogCmd(app),
		newProfileCmd(app),
		newCatalogCmd(app),
		newServeCmd(app),
	)

	return root
}

// render writes v as indented JSON when --json is set and text otherwise.
func (a *App) render(w io.Writer, v any, text func() string) error {
	if a.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := io.WriteString(w, text())
	return err
}
