// Command batchcrop crops a set of images to one shared box without the UI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/batch"
	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

func main() {
	klog.InitFlags(nil)
	boxSpec := flag.String("box", "", "Crop box as x1,y1,x2,y2 in source pixels")
	quality := flag.Int("quality", 80, "JPEG quality when the source quality cannot be estimated")
	outDir := flag.String("out-dir", "", "Output directory (default writes beside each source)")
	flag.Parse()

	if *boxSpec == "" || flag.NArg() == 0 {
		fmt.Println("Usage: batchcrop -box x1,y1,x2,y2 [-quality 80] [-out-dir DIR] <files or directories>")
		os.Exit(1)
	}

	box, err := parseBox(*boxSpec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -box: %v\n", err)
		os.Exit(1)
	}

	paths, err := collectImages(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to scan inputs: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No supported images found")
		os.Exit(1)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Cropping %d images to %dx%d...\n", len(paths), box.Width(), box.Height())

	res, err := batch.CropFiles(paths, box, batch.FileOptions{Quality: *quality, OutDir: *outDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crop failed: %v\n", err)
		os.Exit(1)
	}

	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  failed %s: %v\n", f.Path, f.Err)
	}
	fmt.Printf("Cropped %d of %d images\n", res.Succeeded, len(paths))
	if res.Succeeded == 0 {
		os.Exit(1)
	}
}

// parseBox parses "x1,y1,x2,y2" into a box.
func parseBox(spec string) (geometry.Box, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return geometry.Box{}, fmt.Errorf("want 4 comma-separated integers, got %d", len(parts))
	}
	vals := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return geometry.Box{}, fmt.Errorf("%q is not an integer", part)
		}
		vals[i] = v
	}
	box := geometry.Box{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}
	if !box.Valid() {
		return geometry.Box{}, fmt.Errorf("x2 must exceed x1 and y2 must exceed y1")
	}
	return box, nil
}

// collectImages expands directory arguments and keeps supported image
// files, in walk order.
func collectImages(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if bcimage.IsSupportedFormat(arg) {
				paths = append(paths, arg)
			} else {
				klog.Warningf("skipping unsupported file %s", arg)
			}
			continue
		}

		err = godirwalk.Walk(arg, &godirwalk.Options{
			Callback: func(path string, de *godirwalk.Dirent) error {
				if path != arg && filepath.Base(path)[0] == '.' {
					return godirwalk.SkipThis
				}
				if !de.IsDir() && bcimage.IsSupportedFormat(path) {
					paths = append(paths, path)
				}
				return nil
			},
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}
