package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcre/estate-import/internal/core"
)

type importOptions struct {
	Entity string
	File   string
}

func newImportCommand(a *app) *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV file into the database",
		Long: `Import streams rows from a CSV file into the realtor or listing table.

Each row is validated and committed independently: a bad row is skipped
and reported, and the run continues. The command exits 0 when the run
completes (even with skipped rows) and non-zero when the run aborts,
for example when the store becomes unavailable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "Entity kind to import (realtor or listing)")
	cmd.Flags().StringVar(&opts.File, "file", "", "Path to the CSV file")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImport(ctx context.Context, a *app, opts importOptions) error {
	if err := a.bootstrap(); err != nil {
		return err
	}

	pool, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	runCtx, cancel := context.WithTimeout(ctx, a.cfg.Import.Timeout)
	defer cancel()

	service := core.NewService(pool, core.Options{
		MaxFileSize: a.cfg.Import.MaxFileSize,
	})

	result, err := service.ImportFile(runCtx, opts.Entity, opts.File)
	printSummary(result)
	if err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}
	return nil
}

func printSummary(result core.ImportResult) {
	fmt.Printf("rows: %d  imported: %d  skipped: %d  errored: %d  (%s)\n",
		result.TotalRows, result.Imported, result.Skipped, result.Errored,
		result.Duration.Round(time.Millisecond))
	for _, f := range result.Failed {
		for _, reason := range f.Reasons {
			fmt.Printf("  line %d %s: %s\n", f.LineNumber, f.Status, reason)
		}
	}
}
