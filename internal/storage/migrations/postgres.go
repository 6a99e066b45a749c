package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"athens-property-lab/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded schema files in name
// order. The statements are written to be rerunnable (CREATE TABLE IF
// NOT EXISTS and friends), so calling this on every start is fine.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	files, err := sqlFiles(PostgresFS, "postgres")
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := fs.ReadFile(PostgresFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		stmt := strings.TrimSpace(string(data))
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}
