package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// MonthGroup holds the records applied for in one calendar month.
type MonthGroup struct {
	Year      int
	Month     time.Month
	MonthName string
	Count     int
	Records   []types.JobApplication
}

// GroupByYearMonth groups records by application year, then month, both ascending.
// Within a month, records keep their input order. Records whose date does not
// parse belong to no group.
func (e *Engine) GroupByYearMonth(records []types.JobApplication) []MonthGroup {
	type key struct {
		year  int
		month time.Month
	}

	groups := make(map[key]*MonthGroup)
	for _, r := range records {
		t, ok := ParseDate(r.DateOfApply)
		if !ok {
			continue
		}
		k := key{t.Year(), t.Month()}
		g, exists := groups[k]
		if !exists {
			g = &MonthGroup{
				Year:      k.year,
				Month:     k.month,
				MonthName: e.cfg.MonthNames[k.month-1],
			}
			groups[k] = g
		}
		g.Records = append(g.Records, r)
		g.Count++
	}

	out := make([]MonthGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// ParseMonthSelection converts a histogram key such as "Okt 2025" into the
// date prefix "2025-10" used to select that month's records.
func (e *Engine) ParseMonthSelection(selection string) (string, error) {
	parts := strings.Fields(selection)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid month selection %q: want \"<month> <year>\"", selection)
	}

	month := 0
	for i, abbrev := range e.cfg.MonthAbbrevs {
		if abbrev == parts[0] {
			month = i + 1
			break
		}
	}
	if month == 0 {
		return "", fmt.Errorf("invalid month selection %q: unknown month %q", selection, parts[0])
	}

	var year int
	if _, err := fmt.Sscanf(parts[1], "%4d", &year); err != nil || len(parts[1]) != 4 {
		return "", fmt.Errorf("invalid month selection %q: bad year %q", selection, parts[1])
	}

	return fmt.Sprintf("%04d-%02d", year, month), nil
}

// FilterMonth keeps the records whose application date starts with prefix.
func FilterMonth(records []types.JobApplication, prefix string) []types.JobApplication {
	out := make([]types.JobApplication, 0)
	for _, r := range records {
		if strings.HasPrefix(r.DateOfApply, prefix) {
			out = append(out, r)
		}
	}
	return out
}
