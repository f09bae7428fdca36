package reconcile

import (
	"sort"
	"strings"

	"github.com/pulimoodan/tms/modules/fleet/domain/aggregates/vehicle"
)

// Audit compares the distinct natural keys of an import source against the
// registry's key inventory. Pure and read-only; intended as a sanity gate
// before a bulk import, not part of the per-row hot path.
func Audit(sourceKeys []string, inv vehicle.KeyInventory) AuditReport {
	source := keySet(sourceKeys)
	registry := keySet(inv.Assets)

	report := AuditReport{NullKeyEntries: inv.NullKeyCount}
	for key := range source {
		if _, ok := registry[key]; ok {
			report.Matched = append(report.Matched, key)
		} else {
			report.SourceOnly = append(report.SourceOnly, key)
		}
	}
	for key := range registry {
		if _, ok := source[key]; !ok {
			report.RegistryOnly = append(report.RegistryOnly, key)
		}
	}

	sort.Strings(report.Matched)
	sort.Strings(report.SourceOnly)
	sort.Strings(report.RegistryOnly)
	return report
}

// SourceAssetKeys extracts the distinct non-empty asset tags from source rows.
func SourceAssetKeys(rows []SourceRow) []string {
	set := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if key := strings.TrimSpace(r.Asset); key != "" {
			set[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if k := strings.TrimSpace(key); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
