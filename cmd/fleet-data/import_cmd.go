package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulimoodan/tms/modules/fleet/reconcile"
	"github.com/pulimoodan/tms/pkg/configuration"
)

type importOptions struct {
	source string
	sheet  string
	tenant string
	apply  bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Reconcile a fleet-management export into the vehicle registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Import file (.csv or .xlsx); defaults to FLEET_IMPORT_SOURCE")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet name for .xlsx input")
	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant UUID assigned to newly created entries")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply changes to DB (default is dry-run)")

	return cmd
}

func runImport(ctx context.Context, opts importOptions) error {
	conf := configuration.Use()

	source := strings.TrimSpace(opts.source)
	if source == "" {
		source = conf.FleetImport.SourcePath
	}
	if source == "" {
		return withCode(exitUsage, fmt.Errorf("--source is required (or set FLEET_IMPORT_SOURCE)"))
	}
	sheet := opts.sheet
	if sheet == "" {
		sheet = conf.FleetImport.SheetName
	}

	tenantID, err := resolveTenant(opts.tenant)
	if err != nil {
		return err
	}

	rows, err := reconcile.ReadSourceFile(source, sheet)
	if err != nil {
		return withCode(exitValidation, fmt.Errorf("read %s: %w", source, err))
	}

	pool, err := connectDB(ctx)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	app, err := loadApp(pool)
	if err != nil {
		return withCode(exitDB, err)
	}

	mapping := reconcile.DefaultMapping()
	mapping.Strict = conf.FleetImport.StrictCategories

	report, err := reconciliationService(app).Import(runContext(ctx, pool, tenantID), rows, mapping, reconcile.ImportOptions{
		DefaultTenantID: tenantID,
		DryRun:          !opts.apply,
	})
	if err != nil {
		return withCode(exitDB, err)
	}

	return writeJSONLine(map[string]any{
		"action": "fleet_import",
		"mode":   mode(opts.apply),
		"source": source,
		"rows":   len(rows),
		"report": report,
	})
}

func mode(apply bool) string {
	if apply {
		return "applied"
	}
	return "dry_run"
}
