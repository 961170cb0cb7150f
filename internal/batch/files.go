package batch

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"

	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

// FileOptions configure a sessionless crop run.
type FileOptions struct {
	Quality int    // JPEG quality fallback when the source reveals none
	OutDir  string // output directory, empty writes beside the sources
}

// CropFiles crops each file to box and writes the result under the
// suffixed name, for headless use. Validation and per-item isolation match
// the session pipeline.
func CropFiles(paths []string, box geometry.Box, opts FileOptions) (Result, error) {
	if !box.Valid() {
		return Result{}, ErrInvalidBox
	}
	if len(paths) == 0 {
		return Result{}, ErrNoDocuments
	}

	rect := image.Rect(box.X1, box.Y1, box.X2, box.Y2)
	var res Result
	for i, path := range paths {
		outPath, err := cropFile(path, rect, opts)
		if err != nil {
			klog.Warningf("skipping %s: %v", path, err)
			res.Failures = append(res.Failures, ItemError{Index: i, Path: path, Err: err})
			continue
		}
		klog.V(1).Infof("wrote %s", outPath)
		res.Succeeded++
	}
	return res, nil
}

func cropFile(path string, rect image.Rectangle, opts FileOptions) (string, error) {
	img, meta, err := bcimage.Load(path)
	if err != nil {
		return "", err
	}

	outPath := bcimage.AddSuffix(path)
	if opts.OutDir != "" {
		outPath = filepath.Join(opts.OutDir, filepath.Base(outPath))
	}
	if err := bcimage.Save(outPath, transform.Crop(img, rect), meta, opts.Quality); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	return outPath, nil
}
