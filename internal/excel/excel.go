package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/models"
)

func OpenFile(filename string) (*excelize.File, error) {
	return excelize.OpenFile(filename)
}

// ReadCNPJs returns the raw values of the named column, skipping blank cells.
// excelize hands cell values back as text, so leading zeros and long digit
// sequences survive intact.
func ReadCNPJs(f *excelize.File, sheetName, columnName string) ([]string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	col := -1
	for i, name := range rows[0] {
		if strings.TrimSpace(name) == columnName {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("column %s not found in sheet %s", columnName, sheetName)
	}

	var cnpjs []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		val := strings.TrimSpace(row[col])
		if val == "" {
			continue
		}
		cnpjs = append(cnpjs, val)
	}
	return cnpjs, nil
}

// AppendRows writes the batch into sheetName of the already-open workbook.
// If the sheet exists the rows land right after its last occupied row and no
// header is written, since the sheet is assumed to carry one from when it was
// created. Otherwise the sheet is created and a header row with the ten field
// names precedes the data. A failed existence probe falls through to the
// creation path. Sheets other than the target are never touched; saving is
// the caller's job so the whole update hits disk once.
func AppendRows(f *excelize.File, sheetName string, rows []models.FormattedRow) error {
	start := 1
	withHeader := true

	if idx, err := f.GetSheetIndex(sheetName); err == nil && idx != -1 {
		existing, err := f.GetRows(sheetName)
		if err != nil {
			return fmt.Errorf("reading sheet %s: %w", sheetName, err)
		}
		start = len(existing) + 1
		withHeader = false
	} else if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheetName, err)
	}

	if withHeader {
		header := make([]interface{}, len(models.FieldNames))
		for i, name := range models.FieldNames {
			header[i] = name
		}
		cell, _ := excelize.CoordinatesToCellName(1, start)
		if err := f.SetSheetRow(sheetName, cell, &header); err != nil {
			return fmt.Errorf("writing header row: %w", err)
		}
		start++
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, start+i)
		values := r.Values()
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", start+i, err)
		}
	}

	return nil
}

// Template builds a fresh workbook with the input sheet and column expected
// by the enrichment job.
func Template(sheetName, columnName string) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}
	if err := f.SetCellStr(sheetName, "A1", columnName); err != nil {
		return nil, err
	}
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}
	return f, nil
}
