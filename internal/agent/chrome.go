package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the browser started by ChromeDriver.
type ChromeOptions struct {
	Headless bool
	ExecPath string // empty uses the first Chrome found on the system
}

// ChromeDriver drives a visible Chrome window through the DevTools protocol.
type ChromeDriver struct {
	ctx    context.Context
	cancel func()
}

// NewChromeDriver starts a browser bound to ctx.
func NewChromeDriver(ctx context.Context, opts ChromeOptions) (*ChromeDriver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
		chromedp.Flag("start-maximized", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromeDriver{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}, nil
}

// Open navigates to url and waits for the page body. Login redirects can take
// a while, so no extra timeout is applied.
func (d *ChromeDriver) Open(url string) error {
	if err := chromedp.Run(d.ctx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Click waits for loc to become visible and clicks it.
func (d *ChromeDriver) Click(loc Locator, timeout time.Duration) error {
	return d.run(loc, timeout, chromedp.Click(loc.Selector, chromedp.NodeVisible, by(loc)))
}

// SendKeys waits for loc to become visible and types keys into it.
func (d *ChromeDriver) SendKeys(loc Locator, keys string, timeout time.Duration) error {
	return d.run(loc, timeout, chromedp.SendKeys(loc.Selector, keys, chromedp.NodeVisible, by(loc)))
}

// Clear waits for loc to become visible and empties its value.
func (d *ChromeDriver) Clear(loc Locator, timeout time.Duration) error {
	return d.run(loc, timeout, chromedp.Clear(loc.Selector, chromedp.NodeVisible, by(loc)))
}

// Close shuts the browser down.
func (d *ChromeDriver) Close() error {
	err := chromedp.Cancel(d.ctx)
	d.cancel()
	return err
}

func (d *ChromeDriver) run(loc Locator, timeout time.Duration, action chromedp.Action) error {
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, action); err != nil {
		return fmt.Errorf("%s: %w", loc.Name, err)
	}
	return nil
}

func by(loc Locator) chromedp.QueryOption {
	if loc.XPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}
