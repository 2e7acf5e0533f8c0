package roster

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sampleSheet = "Students"

// CreateSample пишет образец ростера с корректными заголовками и
// тремя примерными строками.
func CreateSample(path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sampleSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range requiredColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(sampleSheet, col+"1", h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	sample := [][]string{
		{"राहुल शर्मा", "+919876543210", "5000", "15-02-2026"},
		{"प्रिया गुप्ता", "+919876543211", "7500", "15-02-2026"},
		{"अमित कुमार", "+919876543212", "3000", "20-02-2026"},
	}
	for rowIdx, row := range sample {
		for colIdx, value := range row {
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			addr := fmt.Sprintf("%s%d", col, rowIdx+2)
			if err := f.SetCellValue(sampleSheet, addr, value); err != nil {
				return fmt.Errorf("write sample row: %w", err)
			}
		}
	}

	widths := map[string]float64{"A": 20, "B": 18, "C": 15, "D": 15}
	for col, w := range widths {
		if err := f.SetColWidth(sampleSheet, col, col, w); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	return f.SaveAs(path)
}
