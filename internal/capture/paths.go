// Package capture imports images from outside the file system: the OS
// clipboard and the screen. Captured images are persisted under the import
// directory before they join the session.
package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
)

// Timestamp layout for captured file names, e.g. clipboard_20260825_143005.png.
const stampLayout = "20060102_150405"

// ResolveImportDir picks the directory captured images are saved to: the
// configured directory when set, else Pictures/Batch-Cropper under the
// user's home, else the home directory itself. The directory is created
// on demand.
func ResolveImportDir(cfg *app.Config) string {
	if cfg.ImportDir != "" {
		if err := os.MkdirAll(cfg.ImportDir, 0755); err == nil {
			return cfg.ImportDir
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pictures := filepath.Join(home, "Pictures", "Batch-Cropper")
	if err := os.MkdirAll(pictures, 0755); err != nil {
		return home
	}
	return pictures
}

// BuildUniquePath returns dir/prefix_YYYYMMDD_HHMMSS.ext, appending a
// numeric counter when that name is already taken.
func BuildUniquePath(dir, prefix, ext string, now time.Time) string {
	stamp := now.Format(stampLayout)
	path := filepath.Join(dir, fmt.Sprintf("%s_%s%s", prefix, stamp, ext))
	if !exists(path) {
		return path
	}
	for i := 1; ; i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%s_%d%s", prefix, stamp, i, ext))
		if !exists(path) {
			return path
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
