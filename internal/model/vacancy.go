package model

import (
	"strconv"
	"strings"
	"time"
)

// SalaryNotSpecified is shown in place of the salary when a vacancy carries no salary object.
const SalaryNotSpecified = "Не указана"

// NotSpecified is the default for nested names (area, schedule, ...) missing from the source.
const NotSpecified = "Не указано"

// PublishedDateLayout is the calendar-date form derived from PublishedAt.
const PublishedDateLayout = "02.01.2006"

// Vacancy is the canonical, presentation-agnostic form of one listing.
// It is built once by the normalizer and never mutated afterwards.
type Vacancy struct {
	ID             string
	Title          string
	Employer       string
	Salary         Salary
	SalaryDisplay  string
	Employment     string
	Schedule       string
	Experience     string
	Area           string
	PublishedAt    *time.Time // nil when absent or unparseable
	PublishedDate  string     // empty when PublishedAt is nil
	URL            string
	Requirement    string
	Responsibility string
}

// Published returns the publish time and whether it is known.
func (v Vacancy) Published() (time.Time, bool) {
	if v.PublishedAt == nil {
		return time.Time{}, false
	}
	return *v.PublishedAt, true
}

// Salary keeps the raw, optional bounds so every caller can pick its own rendering.
type Salary struct {
	Specified bool
	From      *int
	To        *int
	Currency  string // upper-cased
}

// BoundPlaceholders are substituted for a missing lower/upper salary bound.
type BoundPlaceholders struct {
	From string
	To   string
}

var (
	// DisplayPlaceholders is used for on-screen tables.
	DisplayPlaceholders = BoundPlaceholders{From: "?", To: "?"}
	// ExportPlaceholders is used for spreadsheet cells.
	ExportPlaceholders = BoundPlaceholders{From: "0", To: "0"}
	// VerbosePlaceholders spells the missing bound out.
	VerbosePlaceholders = BoundPlaceholders{From: NotSpecified, To: NotSpecified}
)

// Display renders "<from> - <to> <CURRENCY>", or SalaryNotSpecified when there is no salary.
func (s Salary) Display(p BoundPlaceholders) string {
	if !s.Specified {
		return SalaryNotSpecified
	}
	from, to := p.From, p.To
	if s.From != nil {
		from = strconv.Itoa(*s.From)
	}
	if s.To != nil {
		to = strconv.Itoa(*s.To)
	}
	return strings.TrimSpace(from + " - " + to + " " + s.Currency)
}

// Location is a resolved region: the display name travels together with its id.
type Location struct {
	Name string
	ID   int
}

func (l Location) String() string {
	return l.Name + " (" + strconv.Itoa(l.ID) + ")"
}
