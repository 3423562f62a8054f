// Package normalize turns raw vacancy objects from the search API into model.Vacancy.
// Normalization never fails: missing or malformed fields fall back to defaults.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rsilvagit/hh-export/internal/model"
)

// The API sends offsets without a colon ("+0300"); RFC3339 is accepted too.
var publishedLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// Normalizer converts raw records. The zero value leaves missing salary
// bounds and names empty.
type Normalizer struct {
	Placeholders model.BoundPlaceholders
	NameDefault  string
}

// New returns a Normalizer with the given salary placeholders and the Russian "not specified" default.
func New(p model.BoundPlaceholders) Normalizer {
	return Normalizer{Placeholders: p, NameDefault: model.NotSpecified}
}

// Normalize builds a Vacancy from one raw JSON object.
func (n Normalizer) Normalize(raw map[string]any) model.Vacancy {
	v := model.Vacancy{
		ID:         stringAt(raw, "id"),
		Title:      stringAt(raw, "name"),
		Employer:   stringAt(raw, "employer", "name"),
		URL:        stringAt(raw, "alternate_url"),
		Salary:     salary(raw),
		Employment: n.name(raw, "employment"),
		Schedule:   n.name(raw, "schedule"),
		Experience: n.name(raw, "experience"),
		Area:       n.name(raw, "area"),
	}
	if v.URL == "" {
		v.URL = stringAt(raw, "url")
	}
	v.SalaryDisplay = v.Salary.Display(n.Placeholders)

	if t, ok := parsePublished(stringAt(raw, "published_at")); ok {
		v.PublishedAt = &t
		v.PublishedDate = t.Format(model.PublishedDateLayout)
	}

	v.Requirement = stripMarkup(stringAt(raw, "snippet", "requirement"))
	v.Responsibility = stripMarkup(stringAt(raw, "snippet", "responsibility"))
	return v
}

// NormalizeAll normalizes records in input order.
func (n Normalizer) NormalizeAll(raws []map[string]any) []model.Vacancy {
	out := make([]model.Vacancy, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw))
	}
	return out
}

func (n Normalizer) name(raw map[string]any, key string) string {
	if s := stringAt(raw, key, "name"); s != "" {
		return s
	}
	return n.NameDefault
}

func salary(raw map[string]any) model.Salary {
	obj, ok := raw["salary"].(map[string]any)
	if !ok {
		return model.Salary{}
	}
	return model.Salary{
		Specified: true,
		From:      intValue(obj["from"]),
		To:        intValue(obj["to"]),
		Currency:  strings.ToUpper(stringAt(obj, "currency")),
	}
}

func parsePublished(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// lookup walks nested objects; any missing or non-object step yields nil.
func lookup(raw map[string]any, path ...string) any {
	var cur any = raw
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

func stringAt(raw map[string]any, path ...string) string {
	switch v := lookup(raw, path...).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func intValue(v any) *int {
	var n int
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		n = int(val)
	case int:
		n = val
	case int64:
		n = int(val)
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			f, ferr := val.Float64()
			if ferr != nil {
				return nil
			}
			i = int64(f)
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}
