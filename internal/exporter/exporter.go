package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raysh454/nbdata/internal/logging"
	"github.com/raysh454/nbdata/internal/table"
)

// ErrNilTable is returned when asked to export a nil table.
var ErrNilTable = errors.New("exporter: table is nil")

// Exporter writes tables into OutputDir.
type Exporter struct {
	cfg    Config
	logger logging.Logger
}

func New(cfg Config, logger logging.Logger) *Exporter {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Exporter{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "exporter"}),
	}
}

// Path returns the file an export of basename is written to.
func (e *Exporter) Path(basename string) string {
	return filepath.Join(e.cfg.OutputDir, basename)
}

// Export writes t as CSV to Path(basename): a header row with the column
// names followed by one line per row, no index column. An existing file is
// replaced. The output directory is not created.
func (e *Exporter) Export(t *table.Table, basename string) error {
	if t == nil {
		return ErrNilTable
	}
	path := e.Path(basename)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := writeCSV(file, t); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	e.logger.Info("exported table",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "rows", Value: t.Len()},
		logging.Field{Key: "columns", Value: len(t.Columns())})
	return nil
}

func writeCSV(f *os.File, t *table.Table) error {
	w := csv.NewWriter(f)
	if err := writeRecord(w, f, t.Columns()); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for i, rec := range t.Records() {
		if err := writeRecord(w, f, rec); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

// A record of one empty field is written as "" so the line is not blank;
// CSV readers skip blank lines.
func writeRecord(w *csv.Writer, f io.Writer, rec []string) error {
	if len(rec) != 1 || rec[0] != "" {
		return w.Write(rec)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(f, "\"\"\n")
	return err
}
