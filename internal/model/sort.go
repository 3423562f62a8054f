package model

import (
	"slices"
	"time"
)

// SortByPublished returns a copy of vacancies ordered newest first.
// Vacancies without a publish time sort as the earliest instant; ties keep input order.
func SortByPublished(vacancies []Vacancy) []Vacancy {
	out := slices.Clone(vacancies)
	slices.SortStableFunc(out, func(a, b Vacancy) int {
		return publishedOrMin(b).Compare(publishedOrMin(a))
	})
	return out
}

func publishedOrMin(v Vacancy) time.Time {
	if t, ok := v.Published(); ok {
		return t
	}
	return time.Time{}
}
