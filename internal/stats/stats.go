// Package stats computes the derived views shown on the dashboard and in reports:
// elapsed-time labels, status and tag tallies, the monthly histogram, status
// percentages and the year/month grouping used by the activity report.
//
// All functions are pure over their inputs. Dates that do not parse as ISO-8601
// are treated as absent: they produce the "unavailable" label and are left out of
// the histogram and the grouping, but still count toward status and tag tallies.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Elapsed-time markers.
const (
	LabelFuture      = "Future"
	LabelUnavailable = "unavailable"
)

// DefaultMonthAbbrevs are the Swedish-flavoured month abbreviations used for histogram keys.
var DefaultMonthAbbrevs = [12]string{"Jan", "Feb", "Mar", "Apr", "Maj", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dec"}

// DefaultMonthNames are the full English month names used in reports.
var DefaultMonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Config holds the vocabulary and month tables the engine works with.
type Config struct {
	TagVocabulary []string
	MonthAbbrevs  [12]string
	MonthNames    [12]string
	Now           func() time.Time
}

// DefaultConfig returns a Config with the given tag vocabulary and default month tables.
func DefaultConfig(vocabulary []string) Config {
	return Config{
		TagVocabulary: vocabulary,
		MonthAbbrevs:  DefaultMonthAbbrevs,
		MonthNames:    DefaultMonthNames,
		Now:           time.Now,
	}
}

// Engine computes aggregations for one Config.
type Engine struct {
	cfg Config
}

// New creates an Engine. A nil clock defaults to time.Now.
func New(cfg Config) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{cfg: cfg}
}

// Count is one entry of an ordered tally.
type Count struct {
	Key   string
	Count int
}

// Percentage is one status share of the total.
type Percentage struct {
	Status string
	Value  float64 // rounded to one decimal
	Raw    float64 // unrounded share
	Label  string  // e.g. "(33.3%)"
}

// ParseDate parses an ISO-8601 calendar date. The boolean is false for any
// string that is not a valid YYYY-MM-DD date.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(types.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Elapsed returns a human-readable label for the time since date.
func (e *Engine) Elapsed(date string) string {
	start, ok := ParseDate(date)
	if !ok {
		return LabelUnavailable
	}

	now := e.cfg.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(start).Hours() / 24)

	switch {
	case days < 0:
		return LabelFuture
	case days < 7:
		return fmt.Sprintf("%d days", days)
	case days < 30:
		return fmt.Sprintf("%d weeks, %d days", days/7, days%7)
	default:
		return fmt.Sprintf("approx. %d months", days/30)
	}
}

// StatusTally counts records per status in first-seen order.
// An empty status counts as "Waiting for response".
func StatusTally(records []types.JobApplication) []Count {
	var out []Count
	index := make(map[string]int)
	for _, r := range records {
		s := r.Status
		if s == "" {
			s = types.StatusWaiting
		}
		i, ok := index[s]
		if !ok {
			i = len(out)
			index[s] = i
			out = append(out, Count{Key: s})
		}
		out[i].Count++
	}
	return out
}

// TagTally counts occurrences of each vocabulary tag. Every vocabulary tag is
// present, starting at zero, and counts at most once per record. Tags outside
// the vocabulary are ignored.
func (e *Engine) TagTally(records []types.JobApplication) []Count {
	out := make([]Count, len(e.cfg.TagVocabulary))
	index := make(map[string]int, len(e.cfg.TagVocabulary))
	for i, tag := range e.cfg.TagVocabulary {
		out[i] = Count{Key: tag}
		index[tag] = i
	}

	for _, r := range records {
		// A tag repeated within one record counts once.
		seen := make(map[int]bool)
		for _, tag := range types.SplitTags(r.Tags) {
			if i, ok := index[tag]; ok && !seen[i] {
				seen[i] = true
				out[i].Count++
			}
		}
	}
	return out
}

// MonthKey returns the histogram key ("Okt 2025") for a parsed date.
func (e *Engine) MonthKey(t time.Time) string {
	return fmt.Sprintf("%s %d", e.cfg.MonthAbbrevs[t.Month()-1], t.Year())
}

// MonthlyHistogram counts records per application month in first-seen order.
// Records with unparseable dates are skipped.
func (e *Engine) MonthlyHistogram(records []types.JobApplication) []Count {
	var out []Count
	index := make(map[string]int)
	for _, r := range records {
		t, ok := ParseDate(r.DateOfApply)
		if !ok {
			continue
		}
		key := e.MonthKey(t)
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, Count{Key: key})
		}
		out[i].Count++
	}
	return out
}

// StatusPercentages returns each status share of total. Nothing is computed for total <= 0.
func StatusPercentages(tally []Count, total int) []Percentage {
	if total <= 0 {
		return nil
	}

	out := make([]Percentage, 0, len(tally))
	for _, c := range tally {
		pct := float64(c.Count) / float64(total) * 100
		out = append(out, Percentage{
			Status: c.Key,
			Value:  math.Round(pct*10) / 10,
			Raw:    pct,
			Label:  fmt.Sprintf("(%.1f%%)", pct),
		})
	}
	return out
}
