package cli

import (
	"fmt"

	"github.com/alexanderramin/haven/internal/cli/formatter"
	"github.com/alexanderramin/haven/internal/importer"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the content and practice catalog",
	}

	cmd.AddCommand(
		newCatalogImportCmd(app),
		newCatalogValidateCmd(),
	)

	return cmd
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import catalog items from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Import == nil {
				return fmt.Errorf("catalog import is not configured")
			}
			result, err := app.Import.ImportCatalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.logger().InfoContext(cmd.Context(), "catalog imported",
				"file", args[0],
				"content", result.ContentCount,
				"practices", result.PracticeCount,
			)
			return app.render(cmd.OutOrStdout(), result, func() string {
				return formatter.FormatImportResult(args[0], result)
			})
		},
	}
}

// newCatalogValidateCmd checks a catalog file without touching the database.
func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file for errors without importing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadCatalogSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatValidationErrors(errs))
				return fmt.Errorf("%s has %d validation errors", args[0], len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d content, %d practices)\n",
				args[0], len(schema.Content), len(schema.Practices))
			return nil
		},
	}
}
