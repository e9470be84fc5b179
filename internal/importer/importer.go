// Package importer bulk-loads job applications from a JSON file.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
	"go.uber.org/zap"
)

// Defaults applied to optional fields missing from an import record.
const (
	DefaultCity   = "Unknown"
	DefaultStatus = types.StatusApplied
)

// Store is the subset of the record store the importer writes to.
type Store interface {
	InsertMany(ctx context.Context, records []types.ApplicationFields) ([]int64, error)
}

// FileError represents an import file that cannot be used at all
type FileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("import file %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("import file %s: %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// Outcome is the result for one element of the import file.
type Outcome struct {
	Index    int // 1-based position in the file
	Inserted bool
	ID       int64
	Reason   string
}

// Summary reports how an import went.
type Summary struct {
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// record is one import element. Optional fields are pointers so a missing
// field can be told apart from an empty one.
type record struct {
	Title            string  `json:"job_tittle" validate:"required,notblank"`
	Company          string  `json:"company" validate:"required,notblank"`
	City             *string `json:"city"`
	DateOfApply      *string `json:"date_of_apply"`
	Status           *string `json:"status"`
	LastStatusUpdate *string `json:"last_status_update"`
	Tags             *string `json:"tags"`
}

// Importer loads import files into a Store.
type Importer struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an Importer. A nil logger discards log output.
func New(store Store, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		store:    store,
		validate: types.NewValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the clock used for the date_of_apply default.
func (im *Importer) WithClock(now func() time.Time) *Importer {
	im.now = now
	return im
}

// ImportFile imports the JSON file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Summary{}, &FileError{Path: path, Message: "file not found"}
		}
		return Summary{}, &FileError{Path: path, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	summary, err := im.Import(ctx, f)
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		fileErr.Path = path
	}
	return summary, err
}

// Import reads a JSON array of records from r and inserts every well-formed one
// in a single transaction. Malformed elements are skipped and reported in the
// summary. A document that is not a JSON array inserts nothing.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Summary{}, &FileError{Path: "(input)", Message: "failed to read file", Cause: err}
	}

	if err := schemas.ValidateImportRecords(data); err != nil {
		var loadErr *schemas.DocumentLoadError
		if errors.As(err, &loadErr) {
			return Summary{}, &FileError{Path: "(input)", Message: "could not read JSON", Cause: err}
		}
		return Summary{}, &FileError{Path: "(input)", Message: "JSON must be a list of job objects", Cause: err}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return Summary{}, &FileError{Path: "(input)", Message: "could not read JSON", Cause: err}
	}

	today := im.now().Format(types.DateLayout)
	var (
		summary  Summary
		accepted []types.ApplicationFields
		indexes  []int // outcome index of each accepted record
	)

	for i, raw := range elements {
		fields, err := im.parse(raw, today)
		if err != nil {
			reason := fmt.Sprintf("Skipped record %d: %v", i+1, err)
			im.logger.Warn(reason)
			summary.Outcomes = append(summary.Outcomes, Outcome{Index: i + 1, Reason: err.Error()})
			summary.Failed++
			continue
		}
		indexes = append(indexes, len(summary.Outcomes))
		summary.Outcomes = append(summary.Outcomes, Outcome{Index: i + 1})
		accepted = append(accepted, fields)
	}

	ids, err := im.store.InsertMany(ctx, accepted)
	if err != nil {
		return summary, fmt.Errorf("failed to insert imported records: %w", err)
	}

	for n, id := range ids {
		o := &summary.Outcomes[indexes[n]]
		o.Inserted = true
		o.ID = id
	}
	summary.Succeeded = len(ids)

	im.logger.Info("import finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// parse decodes one element and applies the optional-field defaults.
func (im *Importer) parse(raw json.RawMessage, today string) (types.ApplicationFields, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return types.ApplicationFields{}, fmt.Errorf("malformed record: %w", err)
	}
	if err := im.validate.Struct(rec); err != nil {
		return types.ApplicationFields{}, fmt.Errorf("missing job_tittle or company")
	}

	f := types.ApplicationFields{
		Title:       rec.Title,
		Company:     rec.Company,
		City:        valueOr(rec.City, DefaultCity),
		DateOfApply: valueOr(rec.DateOfApply, today),
		Status:      valueOr(rec.Status, DefaultStatus),
		Tags:        valueOr(rec.Tags, ""),
	}
	f.LastStatusUpdate = valueOr(rec.LastStatusUpdate, "")
	if f.LastStatusUpdate == "" {
		f.LastStatusUpdate = f.DateOfApply
	}
	return f, nil
}

// valueOr returns *p, or def when the field was absent or null.
func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
