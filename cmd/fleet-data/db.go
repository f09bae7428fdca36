package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulimoodan/tms/modules/fleet"
	"github.com/pulimoodan/tms/modules/fleet/services"
	"github.com/pulimoodan/tms/pkg/application"
	"github.com/pulimoodan/tms/pkg/composables"
	"github.com/pulimoodan/tms/pkg/configuration"
	"github.com/pulimoodan/tms/pkg/eventbus"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	conf := configuration.Use()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// loadApp builds the application with the fleet module registered, so the
// commands resolve services the same way the server binary does.
func loadApp(pool *pgxpool.Pool) (application.Application, error) {
	conf := configuration.Use()
	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := application.Load(app, fleet.NewModule()); err != nil {
		return nil, err
	}
	return app, nil
}

func reconciliationService(app application.Application) *services.ReconciliationService {
	return app.Service(services.ReconciliationService{}).(*services.ReconciliationService)
}

// resolveTenant picks the tenant from the --tenant flag, falling back to the
// configured default import tenant.
func resolveTenant(flag string) (uuid.UUID, error) {
	if v := strings.TrimSpace(flag); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, withCode(exitUsage, fmt.Errorf("invalid --tenant: %w", err))
		}
		return id, nil
	}
	id, err := configuration.Use().FleetImport.TenantID()
	if err != nil {
		return uuid.Nil, withCode(exitUsage, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, withCode(exitUsage, fmt.Errorf("--tenant is required (or set FLEET_IMPORT_DEFAULT_TENANT)"))
	}
	return id, nil
}

func runContext(ctx context.Context, pool *pgxpool.Pool, tenantID uuid.UUID) context.Context {
	return composables.WithTenantID(composables.WithPool(ctx, pool), tenantID)
}
