// Package generator produces synthetic job applications for demos and load testing.
package generator

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Category is a tag together with the job titles generated under it.
type Category struct {
	Tag    string
	Titles []string
}

// Categories is the generator's own title table. Its tags are written to the
// tags column as-is and are not required to match the dashboard vocabulary.
var Categories = []Category{
	{Tag: "devops", Titles: []string{"Systemingenjör", "System Integratör", "System Engineerare", "DevOps", "Site Reliability Engineer", "Platform Engineer", "Automation Engineer"}},
	{Tag: "it_service_specialist", Titles: []string{"System Owner", "IT Service Specialist", "Process Specialist", "IT Process Manager", "Service Delivery Specialist", "IT Coordinator"}},
	{Tag: "it_team_lead", Titles: []string{"IT Team Lead", "Technical Lead", "Scrum Master", "Agile Coach"}},
	{Tag: "it_manager", Titles: []string{"Projektled", "IT Manager", "IT Driftchef", "Head of IT", "Operations Manager"}},
	{Tag: "first_line", Titles: []string{"IT-supporttekniker 1st line", "Servicedeskmedarbetare", "Helpdesk Support"}},
	{Tag: "second_line", Titles: []string{"IT-tekniker", "IT-tekniker 2nd line", "Supporttekniker", "Systemtekniker"}},
	{Tag: "on_site_support", Titles: []string{"On-site Supporttekniker", "Fälttekniker IT", "Local IT Support"}},
}

// Companies the generator picks from.
var Companies = []string{
	"Saab", "Ericsson", "Scania", "Volvo", "ABB", "Spotify",
	"Sectra", "IFS", "Klarna",
	"Combitech", "Toyota Material Handling", "Siemens Energy", "H&M Group",
	"Skanska IT", "CGI", "Capgemini", "Afry", "Vattenfall", "Atea",
}

// Cities the generator picks from.
var Cities = []string{"Linköping", "Stockholm", "Gothenburg", "Norrköping", "Malmö", "Remote"}

// MaxStatusGap is the largest number of days between applying and the last status update.
const MaxStatusGap = 10

// Options controls the shape of the generated data set.
type Options struct {
	Total  int
	Min    int // fewest applications in any month
	Max    int // most applications in any month
	Months int
	Start  time.Time // first month; only year and month are used
}

// DefaultOptions returns 100 applications spread over April to November 2025.
func DefaultOptions() Options {
	return Options{
		Total:  100,
		Min:    10,
		Max:    18,
		Months: 8,
		Start:  time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Validate rejects option sets no distribution can satisfy.
func (o Options) Validate() error {
	if o.Months <= 0 {
		return fmt.Errorf("months must be positive, got %d", o.Months)
	}
	if o.Min < 0 || o.Max < o.Min {
		return fmt.Errorf("invalid per-month bounds [%d, %d]", o.Min, o.Max)
	}
	if o.Total < o.Months*o.Min || o.Total > o.Months*o.Max {
		return fmt.Errorf("total %d cannot be spread over %d months with %d to %d per month",
			o.Total, o.Months, o.Min, o.Max)
	}
	return nil
}

// MonthCount is the number of applications generated for one month.
type MonthCount struct {
	Month time.Time // first day of the month
	Count int
}

// Distribution picks a per-month count for every month. Counts stay within
// [Min, Max] and sum to Total.
func Distribution(opts Options, rng *rand.Rand) ([]MonthCount, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Date(opts.Start.Year(), opts.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]MonthCount, opts.Months)
	sum := 0
	for i := range out {
		out[i] = MonthCount{
			Month: start.AddDate(0, i, 0),
			Count: opts.Min + rng.IntN(opts.Max-opts.Min+1),
		}
		sum += out[i].Count
	}

	// Nudge random months until the total matches. Validate guarantees a month
	// with room exists in either direction.
	for sum != opts.Total {
		i := rng.IntN(opts.Months)
		switch {
		case sum < opts.Total && out[i].Count < opts.Max:
			out[i].Count++
			sum++
		case sum > opts.Total && out[i].Count > opts.Min:
			out[i].Count--
			sum--
		}
	}
	return out, nil
}

// Generate builds Total synthetic applications sorted by application date.
func Generate(opts Options, rng *rand.Rand) ([]types.ApplicationFields, error) {
	dist, err := Distribution(opts, rng)
	if err != nil {
		return nil, err
	}

	out := make([]types.ApplicationFields, 0, opts.Total)
	for _, mc := range dist {
		days := mc.Month.AddDate(0, 1, -1).Day()
		for n := 0; n < mc.Count; n++ {
			applied := mc.Month.AddDate(0, 0, rng.IntN(days))
			updated := applied.AddDate(0, 0, rng.IntN(MaxStatusGap+1))
			cat := Categories[rng.IntN(len(Categories))]

			out = append(out, types.ApplicationFields{
				Title:            cat.Titles[rng.IntN(len(cat.Titles))],
				Company:          Companies[rng.IntN(len(Companies))],
				City:             Cities[rng.IntN(len(Cities))],
				DateOfApply:      applied.Format(types.DateLayout),
				Status:           types.StatusOptions[rng.IntN(len(types.StatusOptions))],
				LastStatusUpdate: updated.Format(types.DateLayout),
				Tags:             cat.Tag,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateOfApply < out[j].DateOfApply
	})
	return out, nil
}

// NewRand returns a generator seeded for reproducible output.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// UnknownTags returns the generator tags missing from vocabulary, in table order.
func UnknownTags(vocabulary []string) []string {
	known := make(map[string]bool, len(vocabulary))
	for _, v := range vocabulary {
		known[v] = true
	}

	var out []string
	for _, c := range Categories {
		if !known[c.Tag] {
			out = append(out, c.Tag)
		}
	}
	return out
}
