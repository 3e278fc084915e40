package booking

import (
	"context"
	"fmt"
	"time"

	"hotels-etl/utils"
)

// StopReason says why the scroll loop ended.
type StopReason string

const (
	// StopPlateau means the scroll extent stopped growing.
	StopPlateau StopReason = "plateau"
	// StopMaxScrolls means the iteration bound was hit first.
	StopMaxScrolls StopReason = "max_scrolls"
)

// Options tunes acquisition. Zero values fall back to the defaults below.
type Options struct {
	ScrollPause time.Duration
	MaxScrolls  int
	PopupSettle time.Duration
	PopupPause  time.Duration
}

// DefaultOptions returns the stock acquisition settings.
func DefaultOptions() Options {
	return Options{
		ScrollPause: 3 * time.Second,
		MaxScrolls:  100,
		PopupSettle: 5 * time.Second,
		PopupPause:  2 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ScrollPause <= 0 {
		o.ScrollPause = def.ScrollPause
	}
	if o.MaxScrolls <= 0 {
		o.MaxScrolls = def.MaxScrolls
	}
	if o.PopupSettle <= 0 {
		o.PopupSettle = def.PopupSettle
	}
	if o.PopupPause <= 0 {
		o.PopupPause = def.PopupPause
	}
	return o
}

// Page is the settled document returned by an acquisition.
type Page struct {
	URL         string
	HTML        string
	Iterations  int
	FinalExtent int64
	Reason      StopReason
	LoadMores   int
}

// Acquirer drives a rendering surface until the listing page stops growing.
type Acquirer struct {
	open   SurfaceFactory
	opts   Options
	logger *utils.Logger
	sleep  func(time.Duration)
}

// NewAcquirer creates an Acquirer that opens one surface per Acquire call.
func NewAcquirer(open SurfaceFactory, opts Options, logger *utils.Logger) *Acquirer {
	return &Acquirer{
		open:   open,
		opts:   opts.withDefaults(),
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Acquire loads url, dismisses popups, scrolls until the page settles and
// returns the final document. The surface is released before returning.
func (a *Acquirer) Acquire(ctx context.Context, url string) (*Page, error) {
	if url == "" {
		return nil, ErrNoURL
	}
	surface, err := a.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: open surface: %w", err)
	}
	defer func() {
		if rerr := surface.Release(); rerr != nil {
			a.logger.Warn("[acquire] Releasing surface: %v", rerr)
		}
	}()

	a.logger.Info("[acquire] Navigating to %s", url)
	if err := surface.Navigate(url); err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}

	a.dismissPopups(surface)

	page := &Page{URL: url}
	if err := a.scroll(surface, page); err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}

	html, err := surface.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	page.HTML = html

	a.logger.Info("[acquire] Page settled after %d scrolls (%s, extent %d, %d load-more clicks)",
		page.Iterations, page.Reason, page.FinalExtent, page.LoadMores)
	return page, nil
}

// dismissPopups makes one pass over the cookie banner and sign-in overlay.
// Nothing here can fail the acquisition.
func (a *Acquirer) dismissPopups(surface Surface) {
	a.sleep(a.opts.PopupSettle)

	for _, c := range []Control{CookieRejectControl, SignInDismissControl} {
		if _, ok := surface.Locate(c); !ok {
			a.logger.Debug("[acquire] No %s popup found", c.Name)
			continue
		}
		if err := surface.Activate(c); err != nil {
			a.logger.Debug("[acquire] Could not dismiss %s popup: %v", c.Name, err)
			continue
		}
		a.logger.Info("[acquire] Dismissed %s popup", c.Name)
		a.sleep(a.opts.PopupPause)
	}
}

func (a *Acquirer) scroll(surface Surface, page *Page) error {
	last, err := surface.ScrollExtent()
	if err != nil {
		return err
	}
	page.FinalExtent = last
	page.Reason = StopMaxScrolls

	for page.Iterations < a.opts.MaxScrolls {
		if err := surface.ScrollToEnd(); err != nil {
			return err
		}
		page.Iterations++
		a.sleep(a.opts.ScrollPause)

		if a.clickLoadMore(surface, page.Iterations) {
			page.LoadMores++
			a.sleep(a.opts.ScrollPause)
		}

		extent, err := surface.ScrollExtent()
		if err != nil {
			return err
		}
		if extent == last {
			a.logger.Info("[acquire] Reached end of results")
			page.Reason = StopPlateau
			return nil
		}
		a.logger.Debug("[acquire] Scroll %d: extent %d -> %d", page.Iterations, last, extent)
		last = extent
		page.FinalExtent = extent
	}

	a.logger.Warn("[acquire] Stopped at max_scrolls=%d before the page settled", a.opts.MaxScrolls)
	return nil
}

func (a *Acquirer) clickLoadMore(surface Surface, iteration int) bool {
	state, ok := surface.Locate(LoadMoreControl)
	if !ok || !state.Interactive() {
		a.logger.Debug("[acquire] Scroll %d: no clickable load-more button", iteration)
		return false
	}
	if err := surface.Activate(LoadMoreControl); err != nil {
		a.logger.Debug("[acquire] Scroll %d: load-more click failed: %v", iteration, err)
		return false
	}
	a.logger.Info("[acquire] Scroll %d: clicked load-more", iteration)
	return true
}
