package importer

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteReport renders an import run as an operator-facing workbook: one
// summary sheet with counts, one sheet listing every skipped input line.
func WriteReport(res Result, outputPath string) error {
	f := excelize.NewFile()
	summary := f.GetSheetName(0)

	setCell := func(sheet string, col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}

	summaryRows := []struct {
		label string
		value any
	}{
		{"trace_id", res.TraceID},
		{"bakery_id", res.BakeryID},
		{"products", res.Products},
		{"customers", res.Customers},
		{"orders", res.Orders},
		{"order_lines", res.OrderLines},
		{"orders_without_customer", res.OrdersWithoutCustomer},
		{"skipped_lines", len(res.Skipped)},
	}
	for i, row := range summaryRows {
		setCell(summary, 1, i+1, row.label)
		setCell(summary, 2, i+1, row.value)
	}

	skippedSheet := "skipped"
	if _, err := f.NewSheet(skippedSheet); err != nil {
		return err
	}
	headers := []string{"file", "line_no", "reason", "raw_line"}
	for i, h := range headers {
		setCell(skippedSheet, i+1, 1, h)
	}
	for i, e := range res.Skipped {
		r := i + 2
		setCell(skippedSheet, 1, r, string(e.File))
		setCell(skippedSheet, 2, r, e.LineNo)
		setCell(skippedSheet, 3, r, e.Reason)
		setCell(skippedSheet, 4, r, e.Line)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
