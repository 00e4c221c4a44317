package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/raysh454/nbdata/internal/logging"
	"github.com/raysh454/nbdata/internal/table"

	_ "modernc.org/sqlite" // SQLite driver
)

// ExportSQLite writes t into tableName inside the SQLite database at
// Path(basename). The database file is created if needed, the directory is
// not. Any existing table with that name is replaced; every column is TEXT
// holding the same stringified values the CSV export writes.
func (e *Exporter) ExportSQLite(ctx context.Context, t *table.Table, basename, tableName string) error {
	if t == nil {
		return ErrNilTable
	}
	if tableName == "" {
		return fmt.Errorf("exporter: empty sqlite table name")
	}
	columns := t.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("exporter: table has no columns")
	}
	path := e.Path(basename)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && rerr != sql.ErrTxDone {
			e.logger.Warn("exporter: tx rollback failed", logging.Field{Key: "error", Value: rerr})
		}
	}()

	name := quoteIdent(tableName)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop %s: %w", tableName, err)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " TEXT"
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("create %s: %w", tableName, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range t.Records() {
		args := make([]any, len(rec))
		for j, v := range rec {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	e.logger.Info("exported table to sqlite",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "table", Value: tableName},
		logging.Field{Key: "rows", Value: t.Len()})
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
