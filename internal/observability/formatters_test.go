package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/job-tracker/internal/agent"
	"github.com/jonathan/job-tracker/internal/importer"
	"github.com/stretchr/testify/assert"
)

func TestPrintAgentSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAgentSummary(agent.Summary{
		Processed: 3,
		Succeeded: 2,
		Failed:    1,
		Failures:  []agent.Failure{{Index: 2, Company: "Volvo", Err: errors.New("save: timeout")}},
	})
	output := buf.String()

	assert.Contains(t, output, "UPLOAD COMPLETE")
	assert.Contains(t, output, "Klart! 3 jobb har laddats upp till AF.")
	assert.Contains(t, output, "Processed:  3")
	assert.Contains(t, output, "Failed:     1")
	assert.Contains(t, output, "#2 Volvo: save: timeout")
}

func TestPrintAgentSummary_ManyFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var failures []agent.Failure
	for i := 1; i <= 8; i++ {
		failures = append(failures, agent.Failure{Index: i, Company: "Saab", Err: errors.New("boom")})
	}
	p.PrintAgentSummary(agent.Summary{Processed: 8, Failed: 8, Failures: failures})

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintImportSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportSummary("jobs.json", importer.Summary{
		Succeeded: 2,
		Failed:    1,
		Outcomes: []importer.Outcome{
			{Index: 1, Inserted: true, ID: 1},
			{Index: 2, Reason: "missing job_tittle or company"},
			{Index: 3, Inserted: true, ID: 2},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "IMPORT SUMMARY")
	assert.Contains(t, output, "jobs.json")
	assert.Contains(t, output, "Successfully inserted: 2 jobs.")
	assert.Contains(t, output, "Skipped/Failed: 1")
	assert.Contains(t, output, "Skipped record 2: missing job_tittle or company")
	assert.NotContains(t, output, "Skipped record 1")
}

func TestPrintGenerateSummary(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintGenerateSummary(100, 42, []string{"it_team_lead"})

	output := buf.String()
	assert.Contains(t, output, "MOCK DATA GENERATED")
	assert.Contains(t, output, "100 jobs")
	assert.Contains(t, output, "it_team_lead")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", "short\n"+strings.Repeat("ö", 100))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "Li...", truncate("Linköping", 5))
}
