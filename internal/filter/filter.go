package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rsilvagit/hh-export/internal/model"
)

// PerPage is the fixed page size; only the first page is ever requested.
const PerPage = 100

// ErrInvalidFilter is returned for filters rejected before any network call.
var ErrInvalidFilter = errors.New("invalid filter")

// SearchFilter holds the caller's search criteria. Nil pointers mean "not set".
type SearchFilter struct {
	Query       string
	Location    *model.Location
	SalaryFloor *int
	Experience  Experience
	Employment  Employment
	Schedule    Schedule
}

// Param is one query parameter; Value is a string or an int.
type Param struct {
	Key   string
	Value any
}

// Query is an ordered set of API query parameters.
type Query []Param

// Get returns the value stored under key.
func (q Query) Get(key string) (any, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns the parameter names in order.
func (q Query) Keys() []string {
	keys := make([]string, len(q))
	for i, p := range q {
		keys[i] = p.Key
	}
	return keys
}

// Values converts q to url.Values for the transport.
func (q Query) Values() url.Values {
	v := url.Values{}
	for _, p := range q {
		switch val := p.Value.(type) {
		case int:
			v.Set(p.Key, strconv.Itoa(val))
		default:
			v.Set(p.Key, fmt.Sprint(val))
		}
	}
	return v
}

// Build translates a filter into the API's query vocabulary.
// Optional criteria that are not set never appear in the result.
func Build(f SearchFilter) (Query, error) {
	if strings.TrimSpace(f.Query) == "" {
		return nil, fmt.Errorf("%w: empty query text", ErrInvalidFilter)
	}

	q := Query{{Key: "text", Value: f.Query}}
	if f.Location != nil {
		q = append(q, Param{Key: "area", Value: f.Location.ID})
	}
	if f.SalaryFloor != nil {
		if *f.SalaryFloor < 0 {
			return nil, fmt.Errorf("%w: negative salary floor %d", ErrInvalidFilter, *f.SalaryFloor)
		}
		q = append(q, Param{Key: "salary", Value: *f.SalaryFloor})
	}
	if code := f.Experience.Code(); code != "" {
		q = append(q, Param{Key: "experience", Value: code})
	}
	if code := f.Employment.Code(); code != "" {
		q = append(q, Param{Key: "employment", Value: code})
	}
	if code := f.Schedule.Code(); code != "" {
		q = append(q, Param{Key: "schedule", Value: code})
	}
	q = append(q,
		Param{Key: "per_page", Value: PerPage},
		Param{Key: "page", Value: 0},
	)
	return q, nil
}

// ParseSalaryFloor parses a user-entered salary floor. Blank input means no floor.
func ParseSalaryFloor(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: salary %q is not a number", ErrInvalidFilter, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: salary %d is negative", ErrInvalidFilter, n)
	}
	return &n, nil
}
