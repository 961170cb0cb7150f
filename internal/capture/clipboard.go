package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"golang.design/x/clipboard"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
)

// ErrNoClipboardImage is returned by Paste when no image is on the clipboard.
var ErrNoClipboardImage = errors.New("no image on the clipboard")

// InitClipboard wires up the OS clipboard bridge. Call once at startup;
// an error means the platform offers no clipboard access.
func InitClipboard() error {
	return clipboard.Init()
}

// Paste reads an image off the clipboard, persists it as PNG under the
// import directory, and returns the saved path.
func Paste(cfg *app.Config, now time.Time) (string, error) {
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return "", ErrNoClipboardImage
	}

	path := BuildUniquePath(ResolveImportDir(cfg), "clipboard", ".png", now)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save pasted image: %w", err)
	}
	return path, nil
}

// Copy places img on the clipboard as PNG.
func Copy(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
