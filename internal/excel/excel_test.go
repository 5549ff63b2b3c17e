package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Jhonyc92/busca-cnpj-em-lote/internal/models"
)

// newInputWorkbook writes a workbook with a CNPJ sheet holding the given
// column values (blank strings become blank cells).
func newInputWorkbook(t *testing.T, values []string) string {
	t.Helper()

	f := excelize.NewFile()
	_, err := f.NewSheet("CNPJ")
	require.NoError(t, err)
	require.NoError(t, f.SetCellStr("CNPJ", "A1", "CNPJ"))
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellStr("CNPJ", cell, v))
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	path := filepath.Join(t.TempDir(), "CNPJ.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func sampleRows(names ...string) []models.FormattedRow {
	var rows []models.FormattedRow
	for _, n := range names {
		rows = append(rows, models.FormattedRow{CNPJ: "11222333000181", Nome: n, UF: "SP"})
	}
	return rows
}

func TestReadCNPJs(t *testing.T) {
	path := newInputWorkbook(t, []string{"11.222.333/0001-81", "", "99999999999", "  ", "00.000.000/0001-91"})

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	cnpjs, err := ReadCNPJs(f, "CNPJ", "CNPJ")
	require.NoError(t, err)
	assert.Equal(t, []string{"11.222.333/0001-81", "99999999999", "00.000.000/0001-91"}, cnpjs)
}

func TestReadCNPJsMissingColumn(t *testing.T) {
	path := newInputWorkbook(t, []string{"123"})

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = ReadCNPJs(f, "CNPJ", "Razão Social")
	assert.Error(t, err)
}

func TestReadCNPJsMissingSheet(t *testing.T) {
	path := newInputWorkbook(t, nil)

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = ReadCNPJs(f, "Inexistente", "CNPJ")
	assert.Error(t, err)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestAppendRowsCreatesSheetWithHeader(t *testing.T) {
	path := newInputWorkbook(t, []string{"11.222.333/0001-81"})

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, AppendRows(f, "Dados", sampleRows("Primeira", "Segunda")))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.FieldNames, rows[0])
	assert.Equal(t, "Primeira", rows[1][1])
	assert.Equal(t, "Segunda", rows[2][1])

	// input sheet untouched
	input, err := f.GetRows("CNPJ")
	require.NoError(t, err)
	require.Len(t, input, 2)
	assert.Equal(t, "11.222.333/0001-81", input[1][0])
}

func TestAppendRowsSeparateInvocations(t *testing.T) {
	path := newInputWorkbook(t, nil)

	// first run creates the sheet
	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, AppendRows(f, "Dados", sampleRows("B1-a", "B1-b")))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	// second run appends after the existing rows, without a new header
	f, err = OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, AppendRows(f, "Dados", sampleRows("B2-a")))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, models.FieldNames, rows[0])
	assert.Equal(t, "B1-a", rows[1][1])
	assert.Equal(t, "B1-b", rows[2][1])
	assert.Equal(t, "B2-a", rows[3][1])
}

func TestAppendRowsSameHandleTwice(t *testing.T) {
	path := newInputWorkbook(t, nil)

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, AppendRows(f, "Dados", sampleRows("B1")))
	require.NoError(t, AppendRows(f, "Dados", sampleRows("B2")))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.FieldNames, rows[0])
	assert.Equal(t, "B1", rows[1][1])
	assert.Equal(t, "B2", rows[2][1])
}

func TestAppendRowsPreservesExistingSheetContent(t *testing.T) {
	path := newInputWorkbook(t, nil)

	// a pre-existing Dados sheet with a hand-written header and row
	f, err := OpenFile(path)
	require.NoError(t, err)
	_, err = f.NewSheet("Dados")
	require.NoError(t, err)
	require.NoError(t, f.SetCellStr("Dados", "A1", "cnpj"))
	require.NoError(t, f.SetCellStr("Dados", "A2", "manual"))
	require.NoError(t, AppendRows(f, "Dados", sampleRows("Nova")))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Dados")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "manual", rows[1][0])
	assert.Equal(t, "11222333000181", rows[2][0])
}

func TestTemplate(t *testing.T) {
	f, err := Template("CNPJ", "CNPJ")
	require.NoError(t, err)
	defer f.Close()

	val, err := f.GetCellValue("CNPJ", "A1")
	require.NoError(t, err)
	assert.Equal(t, "CNPJ", val)
	assert.Equal(t, -1, mustSheetIndex(t, f, "Sheet1"))
}

func mustSheetIndex(t *testing.T, f *excelize.File, name string) int {
	t.Helper()
	idx, err := f.GetSheetIndex(name)
	require.NoError(t, err)
	return idx
}
