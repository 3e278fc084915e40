package booking

import (
	"context"
	"errors"
)

var (
	// ErrReleased is returned by a Surface used after Release.
	ErrReleased = errors.New("surface already released")
	// ErrControlGone is returned by Activate when the control is no longer in the page.
	ErrControlGone = errors.New("control not present")
	// ErrNoURL is returned when there is no listing URL to acquire.
	ErrNoURL = errors.New("no listing URL given")
)

// Control identifies an optional element of the page, such as a popup button.
type Control struct {
	Name    string
	Query   string
	ByXPath bool
}

// ControlState describes a control that was found in the page.
type ControlState struct {
	Visible bool `json:"visible"`
	Enabled bool `json:"enabled"`
}

// Interactive reports whether the control can be clicked.
func (s ControlState) Interactive() bool {
	return s.Visible && s.Enabled
}

// Surface is a rendering surface that can be driven and read.
// A Surface belongs to a single acquisition and must not be used after Release.
type Surface interface {
	Navigate(url string) error
	// ScrollToEnd extends the page to its current full scrollable extent.
	ScrollToEnd() error
	// ScrollExtent measures the current scrollable height.
	ScrollExtent() (int64, error)
	// Locate probes for an optional control. Absence, and any failure to look,
	// is reported as ok == false.
	Locate(c Control) (state ControlState, ok bool)
	Activate(c Control) error
	// Snapshot returns the rendered document as HTML.
	Snapshot() (string, error)
	Release() error
}

// SurfaceFactory opens a fresh Surface for one acquisition.
type SurfaceFactory func(ctx context.Context) (Surface, error)
