package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// Grabber captures region of the screen. An empty region means the whole
// primary screen.
type Grabber func(region image.Rectangle) (*image.RGBA, error)

// Grab captures region (clipped to the screen) with the screenshot library.
func Grab(region image.Rectangle) (*image.RGBA, error) {
	if region.Empty() {
		img, err := screenshot.CaptureScreen()
		if err != nil {
			return nil, fmt.Errorf("capture: screen: %w", err)
		}
		return img, nil
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("capture: screen rect: %w", err)
	}
	r := region.Intersect(screen)
	if r.Empty() {
		return nil, fmt.Errorf("capture: region out of bounds region=%v screen=%v", region, screen)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capture: rect %v: %w", r, err)
	}
	return img, nil
}
