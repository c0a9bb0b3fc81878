package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"analytics-dashboard/utils"
)

// View is one dashboard page to capture.
type View struct {
	Name string
	Path string
}

// DefaultViews are the four navigable views of the dashboard.
var DefaultViews = []View{
	{Name: "home", Path: "/home"},
	{Name: "table", Path: "/table"},
	{Name: "betdata", Path: "/betdata"},
	{Name: "predict", Path: "/predict"},
}

// Options configures a Capturer.
type Options struct {
	BaseURL     string
	OutDir      string
	ChromeBin   string
	Concurrency int
	Interval    time.Duration
	Timeout     time.Duration
	Retry       *utils.RetryConfig
}

// Result reports the outcome of one view.
type Result struct {
	View View
	File string
	Err  error
}

// shootFunc returns the PNG bytes of the page at url.
type shootFunc func(ctx context.Context, url string) ([]byte, error)

// Capturer screenshots dashboard views with headless Chrome.
type Capturer struct {
	opts   Options
	logger *utils.Logger
	shoot  shootFunc
}

// New creates a Capturer.
func New(opts Options, logger *utils.Logger) *Capturer {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Retry == nil {
		opts.Retry = &utils.RetryConfig{MaxAttempts: 1, Logger: logger}
	}
	return &Capturer{opts: opts, logger: logger}
}

// Run captures every view into OutDir as <name>.png. Per-view failures are
// reported in the results; only setup failures return an error.
func (c *Capturer) Run(ctx context.Context, views []View) ([]Result, error) {
	if err := os.MkdirAll(c.opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create %s: %w", c.opts.OutDir, err)
	}

	shoot := c.shoot
	if shoot == nil {
		browserCtx, cancel, err := c.startBrowser(ctx)
		if err != nil {
			return nil, err
		}
		defer cancel()
		shoot = chromeShooter(browserCtx, c.opts.Timeout)
	}

	results := make([]Result, len(views))
	pool := utils.NewWorkerPool(c.opts.Concurrency, c.opts.Interval)
	for i, v := range views {
		i, v := i, v
		pool.Submit(func() {
			results[i] = c.capture(ctx, shoot, v)
		})
	}
	pool.Wait()

	return results, nil
}

func (c *Capturer) capture(ctx context.Context, shoot shootFunc, v View) Result {
	url := c.opts.BaseURL + v.Path
	res := Result{View: v, File: filepath.Join(c.opts.OutDir, v.Name+".png")}

	var img []byte
	res.Err = c.opts.Retry.Do(ctx, "snapshot-"+v.Name, func() error {
		var err error
		img, err = shoot(ctx, url)
		return err
	})
	if res.Err != nil {
		c.logger.Error("[snapshot] %s failed: %v", url, res.Err)
		return res
	}

	if err := os.WriteFile(res.File, img, 0o644); err != nil {
		res.Err = fmt.Errorf("snapshot: write %s: %w", res.File, err)
		return res
	}
	c.logger.Info("[snapshot] %s -> %s (%d bytes)", url, res.File, len(img))
	return res
}

// startBrowser launches Chrome and returns a context whose children are tabs
// of that one browser.
func (c *Capturer) startBrowser(ctx context.Context) (context.Context, context.CancelFunc, error) {
	chromeBin := findChromeBinary(c.opts.ChromeBin)
	c.logger.Info("[snapshot] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 900),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// Start the browser once so concurrent tabs share it.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("snapshot: start browser: %w", err)
	}
	return browserCtx, cancel, nil
}

func chromeShooter(browserCtx context.Context, timeout time.Duration) shootFunc {
	return func(_ context.Context, url string) ([]byte, error) {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
		defer cancelTimeout()

		var buf []byte
		err := chromedp.Run(tabCtx,
			chromedp.Navigate(url),
			chromedp.WaitVisible("main", chromedp.ByQuery),
			chromedp.FullScreenshot(&buf, 100),
		)
		if err != nil {
			return nil, fmt.Errorf("chromedp capture: %w", err)
		}
		return buf, nil
	}
}

// findChromeBinary locates a Chrome/Chromium binary, preferring explicit.
func findChromeBinary(explicit string) string {
	if explicit != "" {
		return explicit
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
