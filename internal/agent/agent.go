// Package agent replays job applications into the employment-service activity
// report portal through a browser the user has logged in to.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp/kb"
	"github.com/jonathan/job-tracker/internal/types"
	"go.uber.org/zap"
)

// Driver is the browser capability the agent needs. Every element operation
// waits for the element up to timeout.
type Driver interface {
	Open(url string) error
	Click(loc Locator, timeout time.Duration) error
	SendKeys(loc Locator, keys string, timeout time.Duration) error
	Clear(loc Locator, timeout time.Duration) error
	Close() error
}

// Timing holds the waits used while filling the form.
type Timing struct {
	Wait   time.Duration // longest wait for an element
	Settle time.Duration // pause for suggestions and background saves
}

// DefaultTiming waits up to 10s for elements and settles for 2s.
func DefaultTiming() Timing {
	return Timing{Wait: 10 * time.Second, Settle: 2 * time.Second}
}

// Failure records one record the agent could not enter.
type Failure struct {
	Index   int // 1-based position in the batch
	Company string
	Err     error
}

// Summary reports a finished run.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
	Failures  []Failure
}

// CompletionMessage is the message shown once the batch has been replayed.
// It counts every record processed, failed ones included.
func (s Summary) CompletionMessage() string {
	return fmt.Sprintf("Klart! %d jobb har laddats upp till AF.", s.Processed)
}

// Config holds everything a run needs besides the driver and gate.
type Config struct {
	PortalURL string
	Locators  Locators
	Timing    Timing
}

// Agent enters records into the portal one at a time.
type Agent struct {
	driver Driver
	gate   Gate
	cfg    Config
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates an Agent. A nil logger discards log output.
func New(driver Driver, gate Gate, cfg Config, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{driver: driver, gate: gate, cfg: cfg, logger: logger, sleep: sleepCtx}
}

// Run opens the portal, waits once for the human login, then enters every
// record in order. A failing record is logged and skipped. The browser is
// closed when Run returns. An error is returned only when the run could not
// start or ctx ended it early; the summary covers what was processed.
func (a *Agent) Run(ctx context.Context, records []types.ApplicationFields) (Summary, error) {
	defer func() {
		if err := a.driver.Close(); err != nil {
			a.logger.Warn("failed to close browser", zap.Error(err))
		}
	}()

	var summary Summary
	if err := a.driver.Open(a.cfg.PortalURL); err != nil {
		return summary, fmt.Errorf("failed to open portal: %w", err)
	}
	if err := a.gate.Wait(ctx, LoginMessage); err != nil {
		return summary, fmt.Errorf("login not confirmed: %w", err)
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Processed++
		if err := a.enter(ctx, rec); err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Index: i + 1, Company: rec.Company, Err: err})
			a.logger.Error("failed to add application", zap.String("company", rec.Company), zap.Error(err))
			continue
		}
		summary.Succeeded++
		a.logger.Info("auto-added application", zap.String("company", rec.Company))

		if err := a.sleep(ctx, a.cfg.Timing.Settle); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// enter fills and saves the form for one record.
func (a *Agent) enter(ctx context.Context, rec types.ApplicationFields) error {
	loc, wait := a.cfg.Locators, a.cfg.Timing.Wait

	steps := []struct {
		name string
		do   func() error
	}{
		{"open entry form", func() error { return a.driver.Click(loc.EntryButton, wait) }},
		{"type job title", func() error { return a.driver.SendKeys(loc.Role, rec.Title, wait) }},
		{"wait for suggestions", func() error { return a.sleep(ctx, a.cfg.Timing.Settle) }},
		{"pick suggestion", func() error { return a.driver.SendKeys(loc.Role, kb.ArrowDown+kb.Enter, wait) }},
		{"type company", func() error { return a.driver.SendKeys(loc.Company, rec.Company, wait) }},
		{"type city", func() error { return a.driver.SendKeys(loc.City, rec.City, wait) }},
		{"clear date", func() error { return a.driver.Clear(loc.Date, wait) }},
		{"type date", func() error { return a.driver.SendKeys(loc.Date, rec.DateOfApply, wait) }},
		{"save", func() error { return a.driver.Click(loc.Save, wait) }},
	}

	for _, s := range steps {
		if err := s.do(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
