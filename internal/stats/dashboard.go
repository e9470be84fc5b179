package stats

import "github.com/jonathan/job-tracker/internal/types"

// Row is a job application decorated with its elapsed-time labels.
type Row struct {
	types.JobApplication
	TimeWaiting     string
	TimeSinceStatus string
}

// Dashboard is everything the main page shows for one listing.
type Dashboard struct {
	Rows        []Row
	Total       int
	Statuses    []Count
	Tags        []Count
	Months      []Count
	Percentages []Percentage
}

// Dashboard builds the dashboard view for records.
func (e *Engine) Dashboard(records []types.JobApplication) Dashboard {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			JobApplication:  r,
			TimeWaiting:     e.Elapsed(r.DateOfApply),
			TimeSinceStatus: e.Elapsed(r.LastStatusUpdate),
		})
	}

	statuses := StatusTally(records)
	return Dashboard{
		Rows:        rows,
		Total:       len(records),
		Statuses:    statuses,
		Tags:        e.TagTally(records),
		Months:      e.MonthlyHistogram(records),
		Percentages: StatusPercentages(statuses, len(records)),
	}
}
