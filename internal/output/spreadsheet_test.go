package output

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rsilvagit/hh-export/internal/model"
)

func intPtr(v int) *int { return &v }

func published(s string) *time.Time {
	t, err := time.Parse("2006-01-02T15:04:05-0700", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleVacancies() []model.Vacancy {
	return []model.Vacancy{
		{
			Title:         "Go Developer",
			Employer:      "Acme",
			Salary:        model.Salary{Specified: true, From: intPtr(100000), Currency: "RUR"},
			SalaryDisplay: "100000 - ? RUR",
			Area:          "Москва",
			Experience:    "От 1 до 3 лет",
			Employment:    "Полная занятость",
			Schedule:      "Удаленная работа",
			PublishedAt:   published("2024-03-01T10:15:00+0300"),
			PublishedDate: "01.03.2024",
			URL:           "https://hh.ru/vacancy/1",
		},
		{
			Title:         "Intern",
			SalaryDisplay: model.SalaryNotSpecified,
			Area:          model.NotSpecified,
			URL:           "https://hh.ru/vacancy/2",
		},
	}
}

func openSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestExportFullSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacancies.xlsx")

	got, err := SpreadsheetExporter{}.Export(sampleVacancies(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	rows := openSheet(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"Название", "Работодатель", "Зарплата", "Город", "Опыт работы",
		"Занятость", "График", "Дата публикации", "Ссылка",
	}, rows[0])
	assert.Equal(t, "Go Developer", rows[1][0])
	assert.Equal(t, "100000 - ? RUR", rows[1][2])
	assert.Equal(t, "https://hh.ru/vacancy/1", rows[1][8])
	assert.Equal(t, "Intern", rows[2][0])
	assert.Equal(t, "", rows[2][7], "missing publish date is a blank cell")
}

func TestExportDateIsNativeAndOffsetFree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.xlsx")
	_, err := SpreadsheetExporter{Columns: []Column{ColumnPublished}}.Export(sampleVacancies()[:1], path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	typ, err := f.GetCellType(SheetName, "A2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)

	raw, err := f.GetCellValue(SheetName, "A2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	serial, err := excelize.ExcelDateToTime(mustFloat(t, raw), false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC), serial.Round(time.Second))
}

func TestExportThinColumnsAndPlaceholders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thin.xlsx")
	ph := model.ExportPlaceholders

	_, err := SpreadsheetExporter{Columns: ThinColumns, Placeholders: &ph}.Export(sampleVacancies(), path)
	require.NoError(t, err)

	rows := openSheet(t, path)
	assert.Equal(t, []string{"Название", "Работодатель", "Зарплата", "Город", "Дата публикации", "Ссылка"}, rows[0])
	assert.Equal(t, "100000 - 0 RUR", rows[1][2])
	assert.Equal(t, model.SalaryNotSpecified, rows[2][2])
}

func TestExportZeroRecordsWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	got, err := SpreadsheetExporter{}.Export(nil, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	rows := openSheet(t, path)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(AllColumns))
}

func TestExportColumnWidths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widths.xlsx")
	vacancies := []model.Vacancy{{Title: strings.Repeat("x", 60), Employer: "Acme"}}

	_, err := SpreadsheetExporter{Columns: []Column{ColumnTitle, ColumnEmployer}}.Export(vacancies, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	w, err := f.GetColWidth(SheetName, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(MaxColumnWidth), w)

	w, err = f.GetColWidth(SheetName, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(14), w)
}

func TestExportEmptyPathIsNoop(t *testing.T) {
	got, err := SpreadsheetExporter{}.Export(sampleVacancies(), "")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestExportMissingDirectoryIsIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.xlsx")

	_, err := SpreadsheetExporter{}.Export(sampleVacancies(), path)
	require.Error(t, err)

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, ExportIO, exportErr.Kind)
	assert.Equal(t, path, exportErr.Path)
	assert.Contains(t, err.Error(), path)
}

func TestExportErrorClassification(t *testing.T) {
	perm := exportError("/root/x.xlsx", &fs.PathError{Op: "open", Path: "/root/x.xlsx", Err: fs.ErrPermission})
	assert.Equal(t, ExportPermission, perm.Kind)
	assert.ErrorIs(t, perm, fs.ErrPermission)

	other := exportError("/tmp/x.xlsx", errors.New("disk full"))
	assert.Equal(t, ExportIO, other.Kind)
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 14, ColumnWidth("Работодатель", []string{"Acme5"}))
	assert.Equal(t, 50, ColumnWidth("Ссылка", []string{strings.Repeat("a", 60)}))
	assert.Equal(t, 10, ColumnWidth("Зарплата", nil))
	assert.Equal(t, 8, ColumnWidth("Город", []string{"Москва"}))
}

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns([]string{"title", " Link "})
	require.NoError(t, err)
	assert.Equal(t, []Column{ColumnTitle, ColumnLink}, cols)

	_, err = ParseColumns([]string{"bonus"})
	assert.Error(t, err)
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	f, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return f
}
