// Package observability provides formatted console summaries for CLI runs.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-tracker/internal/agent"
	"github.com/jonathan/job-tracker/internal/importer"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted summary output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintAgentSummary outputs the completion summary of an upload run.
func (p *Printer) PrintAgentSummary(s agent.Summary) {
	var sb strings.Builder
	sb.WriteString(s.CompletionMessage() + "\n\n")
	sb.WriteString(fmt.Sprintf("Processed:  %d\n", s.Processed))
	sb.WriteString(fmt.Sprintf("Succeeded:  %d\n", s.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:     %d", s.Failed))

	if len(s.Failures) > 0 {
		sb.WriteString("\n\nFailures:\n")
		count := min(len(s.Failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := s.Failures[i]
			sb.WriteString(fmt.Sprintf("  • #%d %s: %v\n", f.Index, f.Company, f.Err))
		}
		if len(s.Failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(s.Failures)-maxItemsToShow))
		}
	}

	p.printBox("UPLOAD COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportSummary outputs the result of a bulk import.
func (p *Printer) PrintImportSummary(source string, s importer.Summary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:     %s\n\n", source))
	sb.WriteString(fmt.Sprintf("✅ Successfully inserted: %d jobs.\n", s.Succeeded))
	sb.WriteString(fmt.Sprintf("❌ Skipped/Failed: %d", s.Failed))

	var skipped []importer.Outcome
	for _, o := range s.Outcomes {
		if !o.Inserted && o.Reason != "" {
			skipped = append(skipped, o)
		}
	}
	if len(skipped) > 0 {
		sb.WriteString("\n\n")
		count := min(len(skipped), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • Skipped record %d: %s\n", skipped[i].Index, skipped[i].Reason))
		}
		if len(skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skipped)-maxItemsToShow))
		}
	}

	p.printBox("IMPORT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGenerateSummary outputs the result of a synthetic data run.
func (p *Printer) PrintGenerateSummary(created int, seed uint64, unknownTags []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Created:    %d jobs\n", created))
	sb.WriteString(fmt.Sprintf("Seed:       %d", seed))
	if len(unknownTags) > 0 {
		sb.WriteString("\n\nTags not tallied by the dashboard:\n")
		for _, tag := range unknownTags {
			sb.WriteString(fmt.Sprintf("  • %s\n", tag))
		}
	}
	p.printBox("MOCK DATA GENERATED", strings.TrimSuffix(sb.String(), "\n"))
}
