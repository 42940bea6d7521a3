package render

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/gvmreport/gvmreport/internal/report"
	"github.com/gvmreport/gvmreport/pkg/logger"
	"github.com/gvmreport/gvmreport/pkg/pathutil"
)

func init() {
	Register("csv", func(log logger.Logger) (Renderer, error) {
		return &CSVRenderer{logger: log}, nil
	})
}

// CSVRenderer writes all tables to a single comma-separated file. Tables
// are separated by a blank line and introduced by a title row.
type CSVRenderer struct {
	logger logger.Logger
}

// Name returns the format identifier.
func (r *CSVRenderer) Name() string { return "csv" }

// Description returns a human-readable description of the format.
func (r *CSVRenderer) Description() string {
	return "Comma-separated values, one section per table"
}

// Render writes the tables to outputPath.
func (r *CSVRenderer) Render(tables []report.Table, meta Metadata, outputPath string) error {
	validPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	f, err := os.Create(validPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	buf := bufio.NewWriter(f)
	for i, table := range tables {
		if i > 0 {
			if _, err := buf.WriteString("\n"); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
		if err := writeTableCSV(buf, table); err != nil {
			return fmt.Errorf("writing table %q: %w", table.Name, err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}

	r.logger.Info("Wrote CSV report", "path", validPath, "tables", len(tables), "run_id", meta.RunID)
	return nil
}

func writeTableCSV(f *bufio.Writer, table report.Table) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{table.Name}); err != nil {
		return err
	}
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
