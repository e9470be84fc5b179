package stats

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocabulary = []string{"devops", "team_lead", "it_manager", "first_line", "second_line", "it_service_specialist", "on_site_support"}

var clock = time.Date(2025, 11, 3, 15, 30, 0, 0, time.UTC)

func newEngine() *Engine {
	cfg := DefaultConfig(vocabulary)
	cfg.Now = func() time.Time { return clock }
	return New(cfg)
}

func job(id int64, date, status, tags string) types.JobApplication {
	return types.JobApplication{
		ID: id,
		ApplicationFields: types.ApplicationFields{
			Title:            "DevOps",
			Company:          "Saab",
			City:             "Linköping",
			DateOfApply:      date,
			Status:           status,
			LastStatusUpdate: date,
			Tags:             tags,
		},
	}
}

func TestElapsed(t *testing.T) {
	e := newEngine()

	tests := []struct {
		date string
		want string
	}{
		{"2025-11-03", "0 days"},
		{"2025-10-30", "4 days"},
		{"2025-10-28", "6 days"},
		{"2025-10-27", "1 weeks, 0 days"},
		{"2025-10-18", "2 weeks, 2 days"},
		{"2025-10-05", "4 weeks, 1 days"},
		{"2025-10-04", "approx. 1 months"},
		{"2025-05-07", "approx. 6 months"},
		{"2025-11-04", LabelFuture},
		{"", LabelUnavailable},
		{"not-a-date", LabelUnavailable},
		{"2025-13-01", LabelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Elapsed(tt.date))
		})
	}
}

func TestElapsed_MonotonicInAge(t *testing.T) {
	e := newEngine()

	days := func(label string) int {
		var w, d, m int
		switch {
		case label == LabelFuture:
			return -1
		case len(label) > 7 && label[:7] == "approx.":
			_, err := fmt.Sscanf(label, "approx. %d months", &m)
			require.NoError(t, err)
			return m * 30
		default:
			if _, err := fmt.Sscanf(label, "%d weeks, %d days", &w, &d); err == nil {
				return w*7 + d
			}
			_, err := fmt.Sscanf(label, "%d days", &d)
			require.NoError(t, err)
			return d
		}
	}

	prev := -2
	for age := -3; age <= 400; age++ {
		date := clock.AddDate(0, 0, -age).Format(types.DateLayout)
		got := days(e.Elapsed(date))
		assert.GreaterOrEqual(t, got, prev, "age %d", age)
		prev = got
	}
}

func TestStatusTally(t *testing.T) {
	records := []types.JobApplication{
		job(1, "2025-05-01", types.StatusRejected, ""),
		job(2, "2025-05-02", "", ""),
		job(3, "2025-05-03", types.StatusRejected, ""),
		job(4, "2025-05-04", types.StatusWaiting, ""),
		job(5, "2025-05-05", types.StatusInterviewScheduled, ""),
	}

	got := StatusTally(records)
	assert.Equal(t, []Count{
		{Key: types.StatusRejected, Count: 2},
		{Key: types.StatusWaiting, Count: 2},
		{Key: types.StatusInterviewScheduled, Count: 1},
	}, got)

	total := 0
	for _, c := range got {
		total += c.Count
	}
	assert.Equal(t, len(records), total)
}

func TestTagTally(t *testing.T) {
	e := newEngine()
	records := []types.JobApplication{
		job(1, "2025-05-01", "", "devops, second_line"),
		job(2, "2025-05-02", "", "devops"),
		job(3, "2025-05-03", "", "devops,devops"),
		job(4, "2025-05-04", "", "unknown_tag, , it_manager"),
		job(5, "2025-05-05", "", ""),
	}

	got := e.TagTally(records)
	require.Len(t, got, len(vocabulary))

	want := map[string]int{"devops": 3, "second_line": 1, "it_manager": 1}
	for i, c := range got {
		assert.Equal(t, vocabulary[i], c.Key, "vocabulary order is kept")
		assert.Equal(t, want[c.Key], c.Count, c.Key)
		assert.LessOrEqual(t, c.Count, len(records))
	}
}

func TestTagTally_Empty(t *testing.T) {
	got := newEngine().TagTally(nil)
	require.Len(t, got, len(vocabulary))
	for _, c := range got {
		assert.Zero(t, c.Count)
	}
}

func TestMonthlyHistogram(t *testing.T) {
	e := newEngine()
	records := []types.JobApplication{
		job(1, "2025-10-20", "", ""),
		job(2, "2025-05-02", "", ""),
		job(3, "2025-10-01", "", ""),
		job(4, "garbage", "", ""),
		job(5, "2024-05-09", "", ""),
	}

	assert.Equal(t, []Count{
		{Key: "Okt 2025", Count: 2},
		{Key: "Maj 2025", Count: 1},
		{Key: "Maj 2024", Count: 1},
	}, e.MonthlyHistogram(records))
}

func TestStatusPercentages(t *testing.T) {
	tally := []Count{
		{Key: types.StatusWaiting, Count: 1},
		{Key: types.StatusRejected, Count: 1},
		{Key: types.StatusApplied, Count: 1},
	}

	got := StatusPercentages(tally, 3)
	require.Len(t, got, 3)

	for _, p := range got {
		assert.Equal(t, 33.3, p.Value)
		assert.Equal(t, "(33.3%)", p.Label)
	}
}

func TestStatusPercentages_SumRoundsToHundred(t *testing.T) {
	for statuses := 1; statuses <= 12; statuses++ {
		for perStatus := 1; perStatus <= 5; perStatus++ {
			tally := make([]Count, statuses)
			total := 0
			for i := range tally {
				// uneven counts so the shares do not divide cleanly
				tally[i] = Count{Key: fmt.Sprintf("s%d", i), Count: perStatus + i%3}
				total += tally[i].Count
			}

			sum := 0.0
			for _, p := range StatusPercentages(tally, total) {
				assert.InDelta(t, p.Raw, p.Value, 0.05+1e-9)
				sum += p.Raw
			}
			rounded := math.Round(sum*10) / 10
			assert.InDelta(t, 100.0, rounded, 0.1, "%d statuses, %d per status", statuses, perStatus)
		}
	}
}

func TestStatusPercentages_ZeroTotal(t *testing.T) {
	assert.Empty(t, StatusPercentages(nil, 0))
	assert.Empty(t, StatusPercentages([]Count{{Key: "x", Count: 0}}, 0))
}

func TestGroupByYearMonth(t *testing.T) {
	e := newEngine()
	records := []types.JobApplication{
		job(1, "2025-10-20", "", ""),
		job(2, "2025-05-02", "", ""),
		job(3, "2025-10-01", "", ""),
		job(4, "2024-12-31", "", ""),
		job(5, "bad", "", ""),
	}

	groups := e.GroupByYearMonth(records)
	require.Len(t, groups, 3)

	assert.Equal(t, 2024, groups[0].Year)
	assert.Equal(t, time.December, groups[0].Month)
	assert.Equal(t, "December", groups[0].MonthName)

	assert.Equal(t, "May", groups[1].MonthName)
	assert.Equal(t, 1, groups[1].Count)

	assert.Equal(t, "October", groups[2].MonthName)
	assert.Equal(t, 2, groups[2].Count)
	assert.Equal(t, int64(1), groups[2].Records[0].ID, "input order is kept within a month")
	assert.Equal(t, int64(3), groups[2].Records[1].ID)

	grouped := 0
	for _, g := range groups {
		assert.Len(t, g.Records, g.Count)
		grouped += g.Count
	}
	assert.Equal(t, 4, grouped, "every dated record lands in exactly one group")
}

func TestParseMonthSelection(t *testing.T) {
	e := newEngine()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"Okt 2025", "2025-10", false},
		{"Maj 2024", "2024-05", false},
		{"Jan 2026", "2026-01", false},
		{"Oct 2025", "", true},
		{"Okt", "", true},
		{"Okt 25", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := e.ParseMonthSelection(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterMonth(t *testing.T) {
	records := []types.JobApplication{
		job(1, "2025-10-20", "", ""),
		job(2, "2025-05-02", "", ""),
		job(3, "2025-10-01", "", ""),
	}

	got := FilterMonth(records, "2025-10")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Empty(t, FilterMonth(records, "2023-01"))
}

func TestDashboard_Empty(t *testing.T) {
	d := newEngine().Dashboard(nil)

	assert.Zero(t, d.Total)
	assert.Empty(t, d.Rows)
	assert.Empty(t, d.Statuses)
	assert.Empty(t, d.Months)
	assert.Empty(t, d.Percentages)
	require.Len(t, d.Tags, len(vocabulary))
}

func TestDashboard_MalformedDate(t *testing.T) {
	d := newEngine().Dashboard([]types.JobApplication{
		job(1, "08/05/2025", types.StatusRejected, "devops"),
	})

	require.Len(t, d.Rows, 1)
	assert.Equal(t, LabelUnavailable, d.Rows[0].TimeWaiting)
	assert.Equal(t, LabelUnavailable, d.Rows[0].TimeSinceStatus)
	assert.Empty(t, d.Months)
	assert.Equal(t, []Count{{Key: types.StatusRejected, Count: 1}}, d.Statuses)
	assert.Equal(t, 1, d.Tags[0].Count)
	require.Len(t, d.Percentages, 1)
	assert.Equal(t, 100.0, d.Percentages[0].Value)
}

func TestDashboard_Rows(t *testing.T) {
	r := job(7, "2025-10-27", types.StatusWaiting, "")
	r.LastStatusUpdate = "2025-11-01"

	d := newEngine().Dashboard([]types.JobApplication{r})
	require.Len(t, d.Rows, 1)
	assert.Equal(t, int64(7), d.Rows[0].ID)
	assert.Equal(t, "1 weeks, 0 days", d.Rows[0].TimeWaiting)
	assert.Equal(t, "2 days", d.Rows[0].TimeSinceStatus)
	assert.Equal(t, 1, d.Total)
}
