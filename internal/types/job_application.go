// Package types provides type definitions for structured data used throughout the job tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// DateLayout is the ISO-8601 calendar date layout used for every stored date.
const DateLayout = "2006-01-02"

// Status values suggested by the dashboard. Status is free text; these are not enforced.
const (
	StatusWaiting            = "Waiting for response"
	StatusTestsUnderReview   = "Tests under review"
	StatusInterviewScheduled = "Interview 1 Scheduled"
	StatusRejected           = "Rejected"
	StatusRejectedSilently   = "Rejected without response"

	// StatusApplied is the default status for bulk-imported records.
	StatusApplied = "Applied"
)

// StatusOptions lists the suggested statuses in display order.
var StatusOptions = []string{
	StatusWaiting,
	StatusTestsUnderReview,
	StatusInterviewScheduled,
	StatusRejected,
	StatusRejectedSilently,
}

// ApplicationFields holds the seven data fields of a job application.
// The JSON names are shared by the store columns, the bulk import format
// and the automation agent payload.
type ApplicationFields struct {
	Title            string `json:"job_tittle"`
	Company          string `json:"company"`
	City             string `json:"city"`
	DateOfApply      string `json:"date_of_apply"`
	Status           string `json:"status"`
	LastStatusUpdate string `json:"last_status_update"`
	Tags             string `json:"tags"`
}

// JobApplication is a stored application record.
type JobApplication struct {
	ID int64 `json:"id"`
	ApplicationFields
}

// JoinTags serializes selected tags as a comma-and-space separated string.
// Order is kept and duplicates are not removed.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// SplitTags parses a stored tag string back into trimmed, non-empty labels.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FieldsOf extracts the data fields of a record list, dropping store ids.
func FieldsOf(records []JobApplication) []ApplicationFields {
	out := make([]ApplicationFields, len(records))
	for i, r := range records {
		out[i] = r.ApplicationFields
	}
	return out
}
