package reconcile

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

// Pruner removes duplicate registry entries sharing an asset tag, keeping the
// earliest-created entry of each group. It refuses to touch any group in
// which a removal candidate is referenced by dependent records: partial
// cleanup inside a contested group would leave a misleading picture for the
// operator reviewing the report.
//
// The dependents snapshot is taken once, before any delete. A reference
// created between the snapshot and a delete surfaces as a foreign-key
// violation at delete time, which is caught and counted as skipped; the pass
// is meant for maintenance windows, not live write load.
type Pruner struct {
	repo vehicle.Repository
	deps vehicle.DependentChecker
	log  *logrus.Entry
}

func NewPruner(repo vehicle.Repository, deps vehicle.DependentChecker, log *logrus.Entry) *Pruner {
	return &Pruner{repo: repo, deps: deps, log: log}
}

type assetGroup struct {
	asset      string
	keeper     vehicle.Vehicle
	candidates []vehicle.Vehicle
}

// Run executes one prune pass. Idempotent: a second pass over an unchanged
// registry deletes nothing.
func (p *Pruner) Run(ctx context.Context, dryRun bool) (*PruneReport, error) {
	entries, err := p.repo.ListWithAsset(ctx)
	if err != nil {
		return nil, err
	}

	groups := groupByAsset(entries)

	var candidateIDs []uuid.UUID
	for _, g := range groups {
		for _, c := range g.candidates {
			candidateIDs = append(candidateIDs, c.ID())
		}
	}

	report := &PruneReport{Kept: len(entries) - len(candidateIDs)}
	if len(candidateIDs) == 0 {
		return report, nil
	}

	referenced, err := p.deps.ReferencedVehicleIDs(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		if len(g.candidates) == 0 {
			continue
		}
		if blocked, blocker := groupReferenced(g, referenced); blocked {
			report.Skipped += len(g.candidates)
			report.Kept += len(g.candidates)
			report.SkippedGroups = append(report.SkippedGroups, skippedGroup(g,
				"candidate "+blocker.String()+" is referenced by dependent records"))
			if p.log != nil {
				p.log.WithFields(logrus.Fields{
					"asset":   g.asset,
					"blocker": blocker.String(),
				}).Info("duplicate group skipped, candidate still referenced")
			}
			continue
		}

		for _, c := range g.candidates {
			if dryRun {
				report.Deleted++
				continue
			}
			if err := p.repo.Delete(ctx, c.ID()); err != nil {
				// A reference created after the snapshot; keep the row and
				// carry the storage error into the report.
				if errors.Is(err, vehicle.ErrReferenced) {
					report.Skipped++
					report.Kept++
					report.Errors = append(report.Errors, RowError{
						Row:     c.ID().String(),
						Message: err.Error(),
					})
					continue
				}
				// The row survived the failed delete, so it stays in the
				// kept total.
				report.Kept++
				report.Errors = append(report.Errors, RowError{
					Row:     c.ID().String(),
					Message: err.Error(),
				})
				if p.log != nil {
					p.log.WithField("vehicle", c.ID().String()).WithError(err).Error("duplicate delete failed")
				}
				continue
			}
			report.Deleted++
		}
	}

	if p.log != nil {
		p.log.WithFields(logrus.Fields{
			"kept":    report.Kept,
			"deleted": report.Deleted,
			"skipped": report.Skipped,
		}).Info("fleet prune finished")
	}
	return report, nil
}

// groupByAsset groups entries by trimmed asset. The input is ordered by
// creation time ascending, so the first entry of each group is the keeper.
func groupByAsset(entries []vehicle.Vehicle) []assetGroup {
	index := make(map[string]int)
	var groups []assetGroup
	for _, e := range entries {
		if e.Asset() == nil {
			continue
		}
		asset := strings.TrimSpace(*e.Asset())
		if asset == "" {
			continue
		}
		i, ok := index[asset]
		if !ok {
			index[asset] = len(groups)
			groups = append(groups, assetGroup{asset: asset, keeper: e})
			continue
		}
		groups[i].candidates = append(groups[i].candidates, e)
	}
	return groups
}

func groupReferenced(g assetGroup, referenced map[uuid.UUID]struct{}) (bool, uuid.UUID) {
	for _, c := range g.candidates {
		if _, ok := referenced[c.ID()]; ok {
			return true, c.ID()
		}
	}
	return false, uuid.Nil
}

func skippedGroup(g assetGroup, reason string) SkippedGroup {
	candidates := make([]string, 0, len(g.candidates))
	for _, c := range g.candidates {
		candidates = append(candidates, c.ID().String())
	}
	return SkippedGroup{
		Asset:      g.asset,
		KeeperID:   g.keeper.ID().String(),
		Candidates: candidates,
		Reason:     reason,
	}
}
