package filter

import (
	"fmt"
	"strings"
)

// Experience is the required work experience.
type Experience int

const (
	ExperienceAny Experience = iota
	NoExperience
	OneToThree
	ThreeToSix
	MoreThanSix
)

// Employment is the employment type.
type Employment int

const (
	EmploymentAny Employment = iota
	Full
	Part
	Project
	Internship
	Volunteer
)

// Schedule is the work schedule.
type Schedule int

const (
	ScheduleAny Schedule = iota
	FullDay
	Shift
	Flexible
	Remote
	FlyInFlyOut
)

type option struct {
	code  string
	label string
}

var experienceOptions = map[Experience]option{
	NoExperience: {"noExperience", "Нет опыта"},
	OneToThree:   {"between1And3", "От 1 до 3 лет"},
	ThreeToSix:   {"between3And6", "От 3 до 6 лет"},
	MoreThanSix:  {"moreThan6", "Более 6 лет"},
}

var employmentOptions = map[Employment]option{
	Full:       {"full", "Полная занятость"},
	Part:       {"part", "Частичная занятость"},
	Project:    {"project", "Проектная работа"},
	Internship: {"probation", "Стажировка"},
	Volunteer:  {"volunteer", "Волонтерство"},
}

var scheduleOptions = map[Schedule]option{
	FullDay:     {"fullDay", "Полный день"},
	Shift:       {"shift", "Сменный график"},
	Flexible:    {"flexible", "Гибкий график"},
	Remote:      {"remote", "Удаленная работа"},
	FlyInFlyOut: {"flyInFlyOut", "Вахтовый метод"},
}

// Code returns the API code, or "" for ExperienceAny.
func (e Experience) Code() string { return experienceOptions[e].code }

// Code returns the API code, or "" for EmploymentAny.
func (e Employment) Code() string { return employmentOptions[e].code }

// Code returns the API code, or "" for ScheduleAny.
func (s Schedule) Code() string { return scheduleOptions[s].code }

func (e Experience) String() string { return labelOr(experienceOptions[e].label) }
func (e Employment) String() string { return labelOr(employmentOptions[e].label) }
func (s Schedule) String() string   { return labelOr(scheduleOptions[s].label) }

func labelOr(label string) string {
	if label == "" {
		return "Не имеет значения"
	}
	return label
}

// ParseExperience accepts an API code or a UI label. Empty input means any.
func ParseExperience(s string) (Experience, error) {
	return parseOption(s, "experience", experienceOptions)
}

// ParseEmployment accepts an API code or a UI label. Empty input means any.
func ParseEmployment(s string) (Employment, error) {
	return parseOption(s, "employment", employmentOptions)
}

// ParseSchedule accepts an API code or a UI label. Empty input means any.
func ParseSchedule(s string) (Schedule, error) {
	return parseOption(s, "schedule", scheduleOptions)
}

func parseOption[T ~int](s, field string, options map[T]option) (T, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "any") {
		return 0, nil
	}
	for v, o := range options {
		if strings.EqualFold(s, o.code) || strings.EqualFold(s, o.label) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidFilter, field, s)
}
