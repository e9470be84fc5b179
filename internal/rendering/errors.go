// Package rendering produces the downloadable reports: the per-month JSON
// export and the PDF activity report.
package rendering

import "fmt"

// FontError represents a failure to load the configured report fonts
type FontError struct {
	Dir   string
	Cause error
}

func (e *FontError) Error() string {
	return fmt.Sprintf("font error: failed to load fonts from %s: %v", e.Dir, e.Cause)
}

func (e *FontError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
