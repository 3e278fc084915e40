package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/chromedp/chromedp"

	"hotels-etl/config"
	"hotels-etl/utils"
)

// controlScript locates a control by CSS or XPath, reports its state and
// optionally clicks it. Arguments: query, byXPath, click.
const controlScript = `(function(query, byXPath, click) {
	var el = byXPath
		? document.evaluate(query, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue
		: document.querySelector(query);
	if (!el) return {present: false, visible: false, enabled: false};
	var style = window.getComputedStyle(el);
	var rect = el.getBoundingClientRect();
	var visible = style.display !== 'none' && style.visibility !== 'hidden' &&
		rect.width > 0 && rect.height > 0;
	var enabled = !el.disabled;
	if (click) el.click();
	return {present: true, visible: visible, enabled: enabled};
})(%s, %t, %t)`

type controlProbe struct {
	Present bool `json:"present"`
	ControlState
}

// ChromeSurface is a Surface backed by a headless Chrome tab.
type ChromeSurface struct {
	ctx      context.Context
	cancel   context.CancelFunc
	released bool
}

// ChromeFactory returns a SurfaceFactory that launches a new browser per acquisition.
func ChromeFactory(cfg *config.Config, logger *utils.Logger) SurfaceFactory {
	return func(ctx context.Context) (Surface, error) {
		return NewChromeSurface(ctx, cfg, logger)
	}
}

// NewChromeSurface launches Chrome and opens a single tab.
func NewChromeSurface(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*ChromeSurface, error) {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Debug("[chrome] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// An empty Run starts the browser, so launch failures surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("chrome: launch: %w", err)
	}

	return &ChromeSurface{
		ctx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}, nil
}

func (s *ChromeSurface) run(actions ...chromedp.Action) error {
	if s.released {
		return ErrReleased
	}
	return chromedp.Run(s.ctx, actions...)
}

func (s *ChromeSurface) Navigate(url string) error {
	if err := s.run(chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chrome: navigate %q: %w", url, err)
	}
	return nil
}

func (s *ChromeSurface) ScrollToEnd() error {
	if err := s.run(chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil)); err != nil {
		return fmt.Errorf("chrome: scroll: %w", err)
	}
	return nil
}

func (s *ChromeSurface) ScrollExtent() (int64, error) {
	var height int64
	if err := s.run(chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, fmt.Errorf("chrome: measure scroll height: %w", err)
	}
	return height, nil
}

func (s *ChromeSurface) Locate(c Control) (ControlState, bool) {
	probe, err := s.probe(c, false)
	if err != nil || !probe.Present {
		return ControlState{}, false
	}
	return probe.ControlState, true
}

func (s *ChromeSurface) Activate(c Control) error {
	probe, err := s.probe(c, true)
	if err != nil {
		return fmt.Errorf("chrome: click %s: %w", c.Name, err)
	}
	if !probe.Present {
		return fmt.Errorf("chrome: click %s: %w", c.Name, ErrControlGone)
	}
	return nil
}

func (s *ChromeSurface) probe(c Control, click bool) (controlProbe, error) {
	script, err := renderControlScript(c, click)
	if err != nil {
		return controlProbe{}, err
	}
	var probe controlProbe
	err = s.run(chromedp.Evaluate(script, &probe))
	return probe, err
}

func renderControlScript(c Control, click bool) (string, error) {
	query, err := json.Marshal(c.Query)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(controlScript, query, c.ByXPath, click), nil
}

func (s *ChromeSurface) Snapshot() (string, error) {
	var html string
	if err := s.run(chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("chrome: read document: %w", err)
	}
	return html, nil
}

// Release closes the tab and shuts the browser down.
func (s *ChromeSurface) Release() error {
	if s.released {
		return ErrReleased
	}
	s.released = true
	s.cancel()
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
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
