package reconcile

// RowError keys a recovered per-row failure by the row's best-effort
// identifier so operators can trace it back to the source file.
type RowError struct {
	Row     string `json:"row"`
	Message string `json:"message"`
}

// Report is the import run summary. The run always completes and emits one,
// even when every row individually failed.
type Report struct {
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	Errored   int        `json:"errored"`
	Defaulted int        `json:"defaulted"`
	Errors    []RowError `json:"errors,omitempty"`
}

func (r *Report) addError(row SourceRow, err error) {
	r.Errored++
	r.Errors = append(r.Errors, RowError{Row: row.Identifier(), Message: err.Error()})
}

// SkippedGroup records a duplicate group whose deletions were blocked because
// at least one candidate is referenced by dependent records.
type SkippedGroup struct {
	Asset      string   `json:"asset"`
	KeeperID   string   `json:"keeper_id"`
	Candidates []string `json:"candidates"`
	Reason     string   `json:"reason"`
}

// PruneReport is the duplicate cleanup summary.
type PruneReport struct {
	Kept          int            `json:"kept"`
	Deleted       int            `json:"deleted"`
	Skipped       int            `json:"skipped"`
	SkippedGroups []SkippedGroup `json:"skipped_groups,omitempty"`
	Errors        []RowError     `json:"errors,omitempty"`
}

// AuditReport compares the source file's natural keys against the registry's
// before any mutation runs. It never changes state.
type AuditReport struct {
	Matched      []string `json:"matched"`
	SourceOnly   []string `json:"source_only"`
	RegistryOnly []string `json:"registry_only"`
	// NullKeyEntries counts registry entries with neither asset nor door
	// number: they can never be matched by the resolver and deserve a look
	// before a large import.
	NullKeyEntries int64 `json:"null_key_entries"`
}
