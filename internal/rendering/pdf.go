package rendering

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/types"
)

// ActivityReportFilename is the download name of the PDF activity report.
const ActivityReportFilename = "Activity_Report.pdf"

// Font files expected in the configured font directory.
const (
	fontRegular = "DejaVuSansCondensed.ttf"
	fontBold    = "DejaVuSansCondensed-Bold.ttf"
)

// Table column widths in millimetres.
const (
	colDate    = 40
	colTitle   = 80
	colCompany = 70
	rowHeight  = 8
)

// ActivityReport renders applications as a PDF, one table per calendar month.
type ActivityReport struct {
	engine   *stats.Engine
	fontDir  string
	compress bool
}

// NewActivityReport creates a report renderer. With an empty fontDir the
// built-in Helvetica font is used and text is translated to cp1252.
func NewActivityReport(engine *stats.Engine, fontDir string) *ActivityReport {
	return &ActivityReport{engine: engine, fontDir: fontDir, compress: true}
}

// Render writes the report for records to w. Records are grouped by year and
// month, oldest first; records with unparseable dates are left out.
func (r *ActivityReport) Render(w io.Writer, records []types.JobApplication) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontDir != "" {
		pdf.SetFontLocation(r.fontDir)
		pdf.AddUTF8Font("DejaVu", "", fontRegular)
		pdf.AddUTF8Font("DejaVu", "B", fontBold)
		if err := pdf.Error(); err != nil {
			return &FontError{Dir: r.fontDir, Cause: err}
		}
		family = "DejaVu"
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 12)

	for _, g := range r.engine.GroupByYearMonth(records) {
		pdf.SetFont(family, "B", 14)
		header := fmt.Sprintf("===== %s %d - Total Applications: %d =====", g.MonthName, g.Year, g.Count)
		pdf.CellFormat(0, 10, tr(header), "", 1, "", false, 0, "")

		pdf.SetFont(family, "B", 10)
		pdf.SetFillColor(220, 220, 220)
		pdf.CellFormat(colDate, rowHeight, "Date", "1", 0, "", true, 0, "")
		pdf.CellFormat(colTitle, rowHeight, "Job Title", "1", 0, "", true, 0, "")
		pdf.CellFormat(colCompany, rowHeight, "Company", "1", 1, "", true, 0, "")

		pdf.SetFont(family, "", 10)
		for _, app := range g.Records {
			pdf.CellFormat(colDate, rowHeight, tr(app.DateOfApply), "1", 0, "", false, 0, "")
			pdf.CellFormat(colTitle, rowHeight, tr(app.Title), "1", 0, "", false, 0, "")
			pdf.CellFormat(colCompany, rowHeight, tr(app.Company), "1", 1, "", false, 0, "")
		}

		pdf.Ln(5)
	}

	if err := pdf.Output(w); err != nil {
		return &RenderError{Message: "failed to write activity report", Cause: err}
	}
	return nil
}
