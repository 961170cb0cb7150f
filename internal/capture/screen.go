package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
)

// ErrNoDisplays is returned by Screenshot when no display is active.
var ErrNoDisplays = errors.New("no active displays")

// Screenshot captures the union of all active displays in one grab,
// persists it as PNG under the import directory, and returns the saved
// path.
func Screenshot(cfg *app.Config, now time.Time) (string, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return "", ErrNoDisplays
	}

	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}

	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return "", fmt.Errorf("failed to capture screen: %w", err)
	}

	path := BuildUniquePath(ResolveImportDir(cfg), "snapshot", ".png", now)
	if err := bcimage.Save(path, img, bcimage.Meta{}, cfg.JPEGQuality); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}
	return path, nil
}
