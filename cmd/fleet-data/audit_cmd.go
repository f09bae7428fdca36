package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulimoodan/tms/modules/fleet/reconcile"
	"github.com/pulimoodan/tms/pkg/configuration"
)

type auditOptions struct {
	source string
	sheet  string
	tenant string
}

func newAuditCmd() *cobra.Command {
	var opts auditOptions

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Diff the import source's natural keys against the registry without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Import file (.csv or .xlsx); defaults to FLEET_IMPORT_SOURCE")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet name for .xlsx input")
	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant UUID whose registry to audit")

	return cmd
}

func runAudit(ctx context.Context, opts auditOptions) error {
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

	report, err := reconciliationService(app).Audit(runContext(ctx, pool, tenantID), rows)
	if err != nil {
		return withCode(exitDB, err)
	}

	return writeJSONLine(map[string]any{
		"action":        "fleet_audit",
		"source":        source,
		"rows":          len(rows),
		"matched":       len(report.Matched),
		"source_only":   len(report.SourceOnly),
		"registry_only": len(report.RegistryOnly),
		"report":        report,
	})
}
