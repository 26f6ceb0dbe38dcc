package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/go-tangra/go-tangra-fleetreport/internal/inventory"
)

const (
	headerFill = "1F4E78"
	bandFill   = "DCE6F1"

	minColWidth = 8
	maxColWidth = 48
)

// WriteWorkbook writes one worksheet per table: styled header, frozen header
// row and first column, banded row shading, auto-sized columns, and an
// auto-filter across the full range.
func WriteWorkbook(path string, tables []inventory.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("sheet %s: %w", t.Name, err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return fmt.Errorf("sheet %s: %w", t.Name, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp workbook: %w", err)
	}
	// CreateTemp stages at 0600; reports are meant to be shared.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t inventory.Table) error {
	sheet := t.Name

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	lastCell, err := excelize.CoordinatesToCellName(len(t.Columns), len(t.Rows)+1)
	if err != nil {
		return err
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle); err != nil {
		return err
	}

	bandStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bandFill}},
	})
	if err != nil {
		return err
	}
	for i := range t.Rows {
		row := i + 2
		if row%2 != 0 {
			continue
		}
		first, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(t.Columns), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, first, last, bandStyle); err != nil {
			return err
		}
	}

	for col := range t.Columns {
		width := colWidth(t, col)
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}

	if err := f.AutoFilter(sheet, "A1:"+lastCell, nil); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
}

// colWidth sizes a column to its longest cell, bounded so one long value
// cannot blow up the layout.
func colWidth(t inventory.Table, col int) float64 {
	longest := len(t.Columns[col])
	for _, row := range t.Rows {
		if col < len(row) && len(row[col]) > longest {
			longest = len(row[col])
		}
	}
	w := float64(longest) + 2
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}
