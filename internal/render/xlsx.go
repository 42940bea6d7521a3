package render

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/gvmreport/gvmreport/internal/report"
	"github.com/gvmreport/gvmreport/pkg/logger"
	"github.com/gvmreport/gvmreport/pkg/pathutil"
)

func init() {
	Register("xlsx", func(log logger.Logger) (Renderer, error) {
		return &XLSXRenderer{logger: log}, nil
	})
}

// XLSXRenderer writes one spreadsheet with a worksheet per table.
type XLSXRenderer struct {
	logger logger.Logger
}

// Name returns the format identifier.
func (r *XLSXRenderer) Name() string { return "xlsx" }

// Description returns a human-readable description of the format.
func (r *XLSXRenderer) Description() string {
	return "Excel workbook, one worksheet per table"
}

// Render writes the tables to outputPath.
func (r *XLSXRenderer) Render(tables []report.Table, meta Metadata, outputPath string) error {
	validPath, err := pathutil.ValidateOutputPath(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"205867"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, table := range tables {
		sheet := sheetName(table.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("naming sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet %q: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, table, headerStyle); err != nil {
			return fmt.Errorf("writing sheet %q: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Scan report " + meta.RunID,
		Created:     meta.GeneratedAt.Format("2006-01-02T15:04:05Z"),
		Description: "Generated by gvmreport",
	}); err != nil {
		return fmt.Errorf("setting document properties: %w", err)
	}

	if err := f.SaveAs(validPath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	r.logger.Info("Wrote XLSX report", "path", validPath, "tables", len(tables), "run_id", meta.RunID)
	return nil
}

func writeSheet(f *excelize.File, sheet string, table report.Table, headerStyle int) error {
	for c, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if len(table.Columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
		if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
			return err
		}
	}
	for ri, row := range table.Rows {
		for ci, val := range row {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(val)); err != nil {
				return err
			}
		}
	}
	return nil
}

// cellValue stores numeric strings as numbers so spreadsheet sorting and
// formulas work on count columns.
func cellValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil && s != "" {
		return n
	}
	return s
}

// sheetName clamps a table name to the 31-character worksheet limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
