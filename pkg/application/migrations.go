package application

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationManager collects schema files embedded by modules and applies them
// in registration order. Schemas are expected to be idempotent
// (CREATE TABLE IF NOT EXISTS style).
type MigrationManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func NewMigrationManager(pool *pgxpool.Pool) *MigrationManager {
	return &MigrationManager{pool: pool}
}

func (m *MigrationManager) RegisterSchema(fsys ...*embed.FS) {
	m.schemas = append(m.schemas, fsys...)
}

// CollectSchema returns the concatenated SQL of all registered schema files,
// each FS traversed in lexical order.
func (m *MigrationManager) CollectSchema() (string, error) {
	var sb strings.Builder
	for _, fsys := range m.schemas {
		var files []string
		err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && path.Ext(p) == ".sql" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		sort.Strings(files)
		for _, f := range files {
			data, err := fsys.ReadFile(f)
			if err != nil {
				return "", err
			}
			sb.Write(data)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func (m *MigrationManager) Apply(ctx context.Context) error {
	schema, err := m.CollectSchema()
	if err != nil {
		return err
	}
	if strings.TrimSpace(schema) == "" {
		return nil
	}
	_, err = m.pool.Exec(ctx, schema)
	return err
}
