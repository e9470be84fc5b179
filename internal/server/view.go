package server

import (
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/types"
)

// statusView is one line of the status table.
type statusView struct {
	Status string
	Count  int
	Share  string
}

// rowView is one application row with the statuses its selector offers.
type rowView struct {
	stats.Row
	StatusOptions []string
}

// indexView is the data the dashboard template renders.
type indexView struct {
	Today         string
	Search        string
	StatusOptions []string
	TagOptions    []string
	Total         int
	Statuses      []statusView
	Tags          []stats.Count
	Months        []stats.Count
	Rows          []rowView
}

func newIndexView(d stats.Dashboard, search, today string, tagOptions []string) indexView {
	statuses := make([]statusView, len(d.Statuses))
	for i, c := range d.Statuses {
		statuses[i] = statusView{Status: c.Key, Count: c.Count}
		if i < len(d.Percentages) {
			statuses[i].Share = d.Percentages[i].Label
		}
	}

	rows := make([]rowView, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = rowView{Row: r, StatusOptions: statusChoices(r.Status)}
	}

	return indexView{
		Today:         today,
		Search:        search,
		StatusOptions: types.StatusOptions,
		TagOptions:    tagOptions,
		Total:         d.Total,
		Statuses:      statuses,
		Tags:          d.Tags,
		Months:        d.Months,
		Rows:          rows,
	}
}

// statusChoices returns the suggested statuses, plus current when it is not one of them.
func statusChoices(current string) []string {
	for _, s := range types.StatusOptions {
		if s == current {
			return types.StatusOptions
		}
	}
	if current == "" {
		return types.StatusOptions
	}
	return append([]string{current}, types.StatusOptions...)
}
