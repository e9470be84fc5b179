package rendering

import (
	"encoding/json"
	"io"

	"github.com/jonathan/job-tracker/internal/types"
)

// MonthlyJSONFilename returns the download name for a month export.
func MonthlyJSONFilename(selection string) string {
	return "Report_" + selection + ".json"
}

// MonthlyJSON writes records as a 4-space indented JSON array. Non-ASCII text
// and HTML characters are written as-is.
func MonthlyJSON(w io.Writer, records []types.JobApplication) error {
	if records == nil {
		records = []types.JobApplication{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return &RenderError{Message: "failed to encode monthly report", Cause: err}
	}
	return nil
}
