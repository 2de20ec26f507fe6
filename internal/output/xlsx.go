package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pokereports/pokereports/internal/view"
	reports "github.com/pokereports/pokereports/sdk/go"
)

const sheetName = "Reports"

// XLSXFormatter writes a workbook with a header row and one row per record.
type XLSXFormatter struct{}

// Write outputs report lists, view tables or string lists as a workbook.
func (f *XLSXFormatter) Write(w io.Writer, data any) error {
	headers, rows, err := sheetRows(data)
	if err != nil {
		return err
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := book.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
		if err := book.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := book.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func sheetRows(data any) ([]string, [][]string, error) {
	switch v := data.(type) {
	case view.Table:
		return view.RecordHeaders, v.Records(), nil
	case []reports.Report:
		t := view.Table{Rows: make([]view.Row, len(v))}
		for i, r := range v {
			t.Rows[i] = view.NewRow(r, false)
		}
		return view.RecordHeaders, t.Records(), nil
	case []string:
		rows := make([][]string, len(v))
		for i, s := range v {
			rows[i] = []string{s}
		}
		return []string{"name"}, rows, nil
	default:
		return nil, nil, fmt.Errorf("xlsx output does not support %T", data)
	}
}
