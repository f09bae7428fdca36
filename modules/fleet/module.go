package fleet

import (
	"embed"

	"github.com/pulimoodan/tms/modules/fleet/infrastructure/persistence"
	"github.com/pulimoodan/tms/modules/fleet/services"
	"github.com/pulimoodan/tms/pkg/application"
)

//go:embed infrastructure/persistence/schema/fleet-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	vehicleRepo := persistence.NewVehicleRepository()
	app.RegisterServices(
		services.NewVehicleService(vehicleRepo, app.EventPublisher()),
		services.NewReconciliationService(vehicleRepo, persistence.NewDependentRepository(), app.Logger()),
	)

	return nil
}

func (m *Module) Name() string {
	return "fleet"
}
