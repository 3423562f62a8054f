package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestSalaryDisplay(t *testing.T) {
	tests := []struct {
		name   string
		salary Salary
		ph     BoundPlaceholders
		want   string
	}{
		{"no salary", Salary{}, DisplayPlaceholders, SalaryNotSpecified},
		{"from only", Salary{Specified: true, From: intPtr(100000), Currency: "RUR"}, DisplayPlaceholders, "100000 - ? RUR"},
		{"to only export", Salary{Specified: true, To: intPtr(5000), Currency: "USD"}, ExportPlaceholders, "0 - 5000 USD"},
		{"both", Salary{Specified: true, From: intPtr(1), To: intPtr(2), Currency: "EUR"}, DisplayPlaceholders, "1 - 2 EUR"},
		{"no currency is trimmed", Salary{Specified: true, From: intPtr(10)}, VerbosePlaceholders, "10 - Не указано"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.salary.Display(tt.ph))
		})
	}
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "Москва (1)", Location{Name: "Москва", ID: 1}.String())
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestSortByPublishedStableDescending(t *testing.T) {
	in := []Vacancy{
		{ID: "0", PublishedAt: at("2024-01-01T00:00:00Z")},
		{ID: "1", PublishedAt: at("2024-03-01T00:00:00Z")},
		{ID: "2", PublishedAt: at("2024-01-01T00:00:00Z")},
	}

	got := SortByPublished(in)

	assert.Equal(t, []string{"1", "0", "2"}, ids(got))
	assert.Equal(t, []string{"0", "1", "2"}, ids(in), "input must not be reordered")
}

func TestSortByPublishedMissingLast(t *testing.T) {
	in := []Vacancy{
		{ID: "a"},
		{ID: "b", PublishedAt: at("2023-05-01T10:00:00+03:00")},
		{ID: "c"},
		{ID: "d", PublishedAt: at("2023-05-01T08:00:00Z")},
	}

	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(SortByPublished(in)))
}

func TestSortByPublishedEmpty(t *testing.T) {
	assert.Empty(t, SortByPublished(nil))
}

func ids(vs []Vacancy) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.ID
	}
	return out
}
