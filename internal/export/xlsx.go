package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

const activitySheet = "ACTIVITY"

// XlsxWriter implements ReportWriter by writing a dated .xlsx file to
// a local directory.
type XlsxWriter struct {
	dir string
}

// NewXlsxWriter creates an XlsxWriter targeting the given directory.
func NewXlsxWriter(dir string) *XlsxWriter {
	return &XlsxWriter{dir: dir}
}

func (w *XlsxWriter) Write(_ context.Context, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", activitySheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		if err := f.SetSheetRow(activitySheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("activity_%s.xlsx", time.Now().UTC().Format("2006-01-02")))
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
