package main

import (
	"context"

	"github.com/spf13/cobra"
)

type pruneOptions struct {
	tenant string
	apply  bool
}

func newPruneCmd() *cobra.Command {
	var opts pruneOptions

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove duplicate registry entries sharing an asset tag, keeping the earliest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant UUID whose registry to prune")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply deletions (default is dry-run)")

	return cmd
}

func runPrune(ctx context.Context, opts pruneOptions) error {
	tenantID, err := resolveTenant(opts.tenant)
	if err != nil {
		return err
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

	report, err := reconciliationService(app).Prune(runContext(ctx, pool, tenantID), !opts.apply)
	if err != nil {
		return withCode(exitDB, err)
	}

	return writeJSONLine(map[string]any{
		"action": "fleet_prune",
		"mode":   mode(opts.apply),
		"report": report,
	})
}
