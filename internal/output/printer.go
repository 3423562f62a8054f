package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rsilvagit/hh-export/internal/model"
)

// NothingFound is shown for an empty result.
const NothingFound = "Вакансии не найдены."

// ResultWriter defines how search results are presented or delivered.
type ResultWriter interface {
	WriteVacancies(vacancies []model.Vacancy) error
}

// ConsolePrinter writes vacancies to a terminal as an aligned table.
type ConsolePrinter struct {
	out io.Writer
}

func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{out: os.Stdout}
}

func (cp *ConsolePrinter) WriteVacancies(vacancies []model.Vacancy) error {
	if len(vacancies) == 0 {
		_, err := fmt.Fprintln(cp.out, NothingFound)
		return err
	}

	w := tabwriter.NewWriter(cp.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ДАТА\tВАКАНСИЯ\tРАБОТОДАТЕЛЬ\tЗАРПЛАТА\tГОРОД\tURL")
	fmt.Fprintln(w, "----\t--------\t------------\t--------\t-----\t---")
	for _, v := range vacancies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.PublishedDate, v.Title, v.Employer, v.SalaryDisplay, v.Area, v.URL)
	}
	return w.Flush()
}
