package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"athens-property-lab/internal/storage/clickhouse"
)

// RunClickhouseMigrations applies the embedded schema files in name
// order. One statement per file: the native protocol rejects
// multi-statement batches.
func RunClickhouseMigrations(ctx context.Context, conn *clickhouse.Conn) error {
	files, err := sqlFiles(ClickhouseFS, "clickhouse")
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := fs.ReadFile(ClickhouseFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		stmt := strings.TrimSpace(string(data))
		if stmt == "" {
			continue
		}
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
	}
	return nil
}
