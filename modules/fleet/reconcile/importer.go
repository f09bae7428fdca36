package reconcile

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

var ErrNoDefaultTenant = gerrors.New("importer requires a default tenant id")

type ImportOptions struct {
	// DefaultTenantID is assigned to entries created by the import. Updates
	// never touch ownership.
	DefaultTenantID uuid.UUID
	// DryRun resolves and counts without writing.
	DryRun bool
}

// Importer runs the reconciliation loop: normalize, resolve, upsert, one
// source row at a time, in source order. Processing is strictly sequential so
// every row sees the effects of the rows before it.
type Importer struct {
	repo       vehicle.Repository
	resolver   *Resolver
	normalizer *Normalizer
	log        *logrus.Entry
}

func NewImporter(repo vehicle.Repository, normalizer *Normalizer, log *logrus.Entry) *Importer {
	return &Importer{
		repo:       repo,
		resolver:   NewResolver(repo),
		normalizer: normalizer,
		log:        log,
	}
}

// Run processes every row and always returns a report; a row failure is
// recorded and recovered, never propagated. The returned error is reserved
// for conditions that prevent the run from proceeding at all.
func (i *Importer) Run(ctx context.Context, rows []SourceRow, opts ImportOptions) (*Report, error) {
	if opts.DefaultTenantID == uuid.Nil && !opts.DryRun {
		return nil, ErrNoDefaultTenant
	}

	report := &Report{}
	for _, row := range rows {
		i.processRow(ctx, row, opts, report)
	}

	if i.log != nil {
		i.log.WithFields(logrus.Fields{
			"created": report.Created,
			"updated": report.Updated,
			"skipped": report.Skipped,
			"errored": report.Errored,
		}).Info("fleet import finished")
	}
	return report, nil
}

func (i *Importer) processRow(ctx context.Context, row SourceRow, opts ImportOptions, report *Report) {
	rec, err := i.normalizer.Normalize(row)
	if err != nil {
		if errors.Is(err, ErrSkipRow) {
			report.Skipped++
			return
		}
		i.logRowError(row, err)
		report.addError(row, err)
		return
	}
	if rec.Defaulted {
		report.Defaulted++
	}

	existing, found, err := i.resolver.Resolve(ctx, rec)
	if err != nil {
		i.logRowError(row, err)
		report.addError(row, err)
		return
	}

	if found {
		// Full attribute replace; identity and tenant ownership carry over
		// from the existing entry.
		next := existing.ReplaceAttributes(rec.Attrs)
		if existing.Attributes().Equal(next.Attributes()) {
			report.Skipped++
			return
		}
		if !opts.DryRun {
			if err := i.repo.Update(ctx, next); err != nil {
				i.logRowError(row, err)
				report.addError(row, err)
				return
			}
		}
		report.Updated++
		return
	}

	if !opts.DryRun {
		if _, err := i.repo.Create(ctx, vehicle.New(opts.DefaultTenantID, rec.Attrs)); err != nil {
			i.logRowError(row, err)
			report.addError(row, err)
			return
		}
	}
	report.Created++
}

func (i *Importer) logRowError(row SourceRow, err error) {
	if i.log == nil {
		return
	}
	i.log.WithField("row", row.Identifier()).WithError(err).Error("fleet import row failed")
}
