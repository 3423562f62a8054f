package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/rsilvagit/hh-export/internal/model"
)

const (
	// SheetName is the only sheet of an exported workbook.
	SheetName = "Вакансии"
	// MaxColumnWidth caps auto-sized columns, in character widths.
	MaxColumnWidth = 50

	dateTimeLayout = "02.01.2006 15:04"
	dateTimeNumFmt = "dd.mm.yyyy hh:mm"
)

// Column is one column of the exported table.
type Column int

const (
	ColumnTitle Column = iota
	ColumnEmployer
	ColumnSalary
	ColumnCity
	ColumnExperience
	ColumnEmployment
	ColumnSchedule
	ColumnPublished
	ColumnLink
)

var columnNames = map[Column][2]string{
	ColumnTitle:      {"title", "Название"},
	ColumnEmployer:   {"employer", "Работодатель"},
	ColumnSalary:     {"salary", "Зарплата"},
	ColumnCity:       {"city", "Город"},
	ColumnExperience: {"experience", "Опыт работы"},
	ColumnEmployment: {"employment", "Занятость"},
	ColumnSchedule:   {"schedule", "График"},
	ColumnPublished:  {"published", "Дата публикации"},
	ColumnLink:       {"link", "Ссылка"},
}

var (
	// AllColumns is the full schema.
	AllColumns = []Column{
		ColumnTitle, ColumnEmployer, ColumnSalary, ColumnCity, ColumnExperience,
		ColumnEmployment, ColumnSchedule, ColumnPublished, ColumnLink,
	}
	// ThinColumns leaves out the experience, employment and schedule columns.
	ThinColumns = []Column{
		ColumnTitle, ColumnEmployer, ColumnSalary, ColumnCity, ColumnPublished, ColumnLink,
	}
)

// Header returns the column title written to the first row.
func (c Column) Header() string { return columnNames[c][1] }

func (c Column) String() string { return columnNames[c][0] }

// ParseColumns maps config names ("title", "salary", ...) to columns.
func ParseColumns(names []string) ([]Column, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		found := false
		for c, n := range columnNames {
			if strings.EqualFold(strings.TrimSpace(name), n[0]) {
				cols = append(cols, c)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("output: unknown column %q", name)
		}
	}
	return cols, nil
}

// ExportErrorKind tells a permission problem apart from other write failures.
type ExportErrorKind int

const (
	ExportIO ExportErrorKind = iota
	ExportPermission
)

func (k ExportErrorKind) String() string {
	if k == ExportPermission {
		return "permission denied"
	}
	return "i/o error"
}

// ExportError reports a failed export and the path involved.
type ExportError struct {
	Kind ExportErrorKind
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

func exportError(path string, err error) *ExportError {
	kind := ExportIO
	if errors.Is(err, fs.ErrPermission) {
		kind = ExportPermission
	}
	return &ExportError{Kind: kind, Path: path, Err: err}
}

// SpreadsheetExporter writes vacancies to an .xlsx workbook.
type SpreadsheetExporter struct {
	Columns []Column // nil means AllColumns
	// Placeholders, when set, re-render the salary from its raw bounds
	// instead of using Vacancy.SalaryDisplay.
	Placeholders *model.BoundPlaceholders
}

// Export writes one sheet with a header row and one row per vacancy, in the
// given order, and returns the written path. An empty path is a no-op.
func (e SpreadsheetExporter) Export(vacancies []model.Vacancy, path string) (string, error) {
	if path == "" {
		return "", nil
	}

	cols := e.Columns
	if len(cols) == 0 {
		cols = AllColumns
	}

	f, err := e.workbook(vacancies, cols)
	if err != nil {
		return "", &ExportError{Kind: ExportIO, Path: path, Err: err}
	}
	defer f.Close()

	out, err := os.Create(path)
	if err != nil {
		return "", exportError(path, err)
	}
	if _, err := f.WriteTo(out); err != nil {
		out.Close()
		return "", exportError(path, err)
	}
	if err := out.Close(); err != nil {
		return "", exportError(path, err)
	}

	log.Info().Str("path", path).Int("rows", len(vacancies)).Int("columns", len(cols)).Msg("export: workbook written")
	return path, nil
}

func (e SpreadsheetExporter) workbook(vacancies []model.Vacancy, cols []Column) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	if err := e.fill(f, vacancies, cols); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (e SpreadsheetExporter) fill(f *excelize.File, vacancies []model.Vacancy, cols []Column) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	numFmt := dateTimeNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}

	texts := make([][]string, len(cols))
	for ci, col := range cols {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, col.Header()); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return err
		}
		texts[ci] = make([]string, 0, len(vacancies))
	}

	for ri, v := range vacancies {
		for ci, col := range cols {
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			value, text := e.cell(col, v)
			texts[ci] = append(texts[ci], text)
			if value == nil {
				continue
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return err
			}
			if col == ColumnPublished {
				if err := f.SetCellStyle(SheetName, cell, cell, dateStyle); err != nil {
					return err
				}
			}
		}
	}

	for ci, col := range cols {
		name, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		width := ColumnWidth(col.Header(), texts[ci])
		if err := f.SetColWidth(SheetName, name, name, float64(width)); err != nil {
			return err
		}
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cell returns the value to store (nil for a blank cell) and its text form for sizing.
func (e SpreadsheetExporter) cell(col Column, v model.Vacancy) (any, string) {
	var s string
	switch col {
	case ColumnTitle:
		s = v.Title
	case ColumnEmployer:
		s = v.Employer
	case ColumnSalary:
		s = v.SalaryDisplay
		if e.Placeholders != nil {
			s = v.Salary.Display(*e.Placeholders)
		}
	case ColumnCity:
		s = v.Area
	case ColumnExperience:
		s = v.Experience
	case ColumnEmployment:
		s = v.Employment
	case ColumnSchedule:
		s = v.Schedule
	case ColumnPublished:
		t, ok := v.Published()
		if !ok {
			return nil, ""
		}
		naive := wallClock(t)
		return naive, naive.Format(dateTimeLayout)
	case ColumnLink:
		s = v.URL
	}
	return s, s
}

// wallClock drops the offset but keeps the local date and time as published.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ColumnWidth is max(longest cell, header) + 2 runes, capped at MaxColumnWidth.
func ColumnWidth(header string, cells []string) int {
	w := utf8.RuneCountInString(header)
	for _, c := range cells {
		if n := utf8.RuneCountInString(c); n > w {
			w = n
		}
	}
	return min(w+2, MaxColumnWidth)
}
