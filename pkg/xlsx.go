package glauber

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// setCell writes value at column col and row row, both starting at 1.
func setCell(f *excelize.File, sheet string, col int, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("error writing cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// SaveTablesToXLSX writes a summary sheet plus one sheet per table.
func SaveTablesToXLSX(filename string, typ string, nevents int, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	summaryRows := [][2]interface{}{
		{"Type", typ},
		{"Description", TypeDescription(typ)},
		{"Events", nevents},
	}
	for i, r := range summaryRows {
		if err := setCell(f, summary, 1, i+1, r[0]); err != nil {
			return err
		}
		if err := setCell(f, summary, 2, i+1, r[1]); err != nil {
			return err
		}
	}

	for _, t := range tables {
		sheet := t.Name
		if len(sheet) > maxSheetName {
			sheet = sheet[:maxSheetName]
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("error creating sheet %s: %w", sheet, err)
		}

		for col, name := range t.Columns {
			if err := setCell(f, sheet, col+1, 1, name); err != nil {
				return err
			}
		}
		for i, row := range t.Rows {
			for col, v := range row {
				if err := setCell(f, sheet, col+1, i+2, v); err != nil {
					return err
				}
			}
		}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Saving %d tables to %s", len(tables), filename)
		logger.Info(message, "xlsx")
	}
	return f.SaveAs(filename)
}
