// Package upload hands a date range of applications to the automation agent.
package upload

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/types"
	"go.uber.org/zap"
)

// RangeLister is the subset of the record store the bridge reads from.
type RangeLister interface {
	ListRange(ctx context.Context, start, end string) ([]types.JobApplication, error)
}

// Launcher starts the automation agent for one batch and returns without waiting for it.
type Launcher interface {
	Launch(ctx context.Context, batchID string, payload []byte) error
}

// Result describes one handoff. Launched is false when the range held no records.
type Result struct {
	BatchID  string
	Records  int
	Launched bool
}

// Bridge selects records and hands them off to a Launcher.
type Bridge struct {
	store    RangeLister
	launcher Launcher
	logger   *zap.Logger
	newID    func() string
}

// NewBridge creates a Bridge. A nil logger discards log output.
func NewBridge(store RangeLister, launcher Launcher, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		store:    store,
		launcher: launcher,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Upload hands every record applied for between start and end inclusive to the
// agent as one JSON array, oldest first. An empty range launches nothing. The
// agent outcome is never reported back.
func (b *Bridge) Upload(ctx context.Context, start, end string) (Result, error) {
	jobs, err := b.store.ListRange(ctx, start, end)
	if err != nil {
		return Result{}, fmt.Errorf("failed to select records for upload: %w", err)
	}
	if len(jobs) == 0 {
		b.logger.Info("no records in range, nothing to upload",
			zap.String("start", start), zap.String("end", end))
		return Result{}, nil
	}

	payload, err := json.Marshal(types.FieldsOf(jobs))
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode upload payload: %w", err)
	}

	res := Result{BatchID: b.newID(), Records: len(jobs)}
	if err := b.launcher.Launch(ctx, res.BatchID, payload); err != nil {
		return res, fmt.Errorf("failed to launch upload agent: %w", err)
	}
	res.Launched = true

	b.logger.Info("upload agent launched",
		zap.String("batch_id", res.BatchID),
		zap.Int("records", res.Records),
		zap.String("start", start),
		zap.String("end", end))
	return res, nil
}
