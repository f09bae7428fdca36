package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema of every registered module",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	}
}

func runMigrate(ctx context.Context) error {
	pool, err := connectDB(ctx)
	if err != nil {
		return withCode(exitDB, err)
	}
	defer pool.Close()

	app, err := loadApp(pool)
	if err != nil {
		return withCode(exitDB, err)
	}
	if err := app.Migrations().Apply(ctx); err != nil {
		return withCode(exitDB, err)
	}

	return writeJSONLine(map[string]any{
		"action": "migrate",
		"status": "applied",
	})
}
