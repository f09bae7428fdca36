package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
	"github.com/pulimoodan/tms/modules/fleet/reconcile"
	"github.com/pulimoodan/tms/pkg/composables"
)

// ReconciliationService ties the fleet import pipeline together for callers
// outside the reconcile package (CLI, scheduled jobs).
//
// Import and Prune intentionally run on the pool rather than one spanning
// transaction: each row (or delete) is atomic on its own and a failure must
// not roll back the rows already applied.
type ReconciliationService struct {
	repo vehicle.Repository
	deps vehicle.DependentChecker
	log  *logrus.Logger
}

func NewReconciliationService(repo vehicle.Repository, deps vehicle.DependentChecker, log *logrus.Logger) *ReconciliationService {
	return &ReconciliationService{repo: repo, deps: deps, log: log}
}

func (s *ReconciliationService) Import(ctx context.Context, rows []reconcile.SourceRow, mapping reconcile.Mapping, opts reconcile.ImportOptions) (*reconcile.Report, error) {
	entry := s.log.WithField("component", "fleet-import")
	importer := reconcile.NewImporter(s.repo, reconcile.NewNormalizer(mapping, entry), entry)
	return importer.Run(ctx, rows, opts)
}

func (s *ReconciliationService) Prune(ctx context.Context, dryRun bool) (*reconcile.PruneReport, error) {
	entry := s.log.WithField("component", "fleet-prune")
	return reconcile.NewPruner(s.repo, s.deps, entry).Run(ctx, dryRun)
}

// Audit reads the registry's key inventory and diffs it against the source
// keys. Read-only.
func (s *ReconciliationService) Audit(ctx context.Context, rows []reconcile.SourceRow) (*reconcile.AuditReport, error) {
	inv, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (vehicle.KeyInventory, error) {
		return s.repo.Keys(txCtx)
	})
	if err != nil {
		return nil, err
	}
	report := reconcile.Audit(reconcile.SourceAssetKeys(rows), inv)
	return &report, nil
}
