// Package batch runs the whole-session transforms: cropping every loaded
// document to one source-space box, and palette reduction. Failures are
// isolated per document so one bad file never sinks the run.
package batch

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"

	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/session"
	"github.com/Sawamura-Jun/Batch-Cropper/pkg/geometry"
)

var (
	// ErrInvalidBox rejects a crop box whose corners are not strictly ordered.
	ErrInvalidBox = errors.New("invalid crop box")
	// ErrNoDocuments rejects a batch run over an empty session.
	ErrNoDocuments = errors.New("no documents loaded")
	// ErrNotAllPNG rejects palette reduction when non-PNG documents are loaded.
	ErrNotAllPNG = errors.New("all documents must be PNG files")
)

// ItemError records one document's failure inside a batch run.
type ItemError struct {
	Index int
	Path  string
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// Result summarizes a batch run.
type Result struct {
	Succeeded int
	Failures  []ItemError
}

// transformFunc produces the replacement document for one input document.
type transformFunc func(doc *session.Document) (*session.Document, error)

// ApplyCrop crops every loaded document to box, persists each result under
// the suffixed output path, and replaces the session's working set with the
// documents that survived. The session is untouched when nothing succeeds.
func ApplyCrop(sess *session.Session, box geometry.Box) (Result, error) {
	if !box.Valid() {
		return Result{}, ErrInvalidBox
	}
	docs := sess.Documents()
	if len(docs) == 0 {
		return Result{}, ErrNoDocuments
	}

	quality := sess.Config().JPEGQuality
	rect := image.Rect(box.X1, box.Y1, box.X2, box.Y2)
	return run(sess, docs, func(doc *session.Document) (*session.Document, error) {
		cropped := transform.Crop(doc.Image, rect)
		out, err := saveAndReload(doc.Path, cropped, doc.Meta, quality)
		if err != nil {
			return nil, err
		}
		out.Reduced = doc.Reduced
		return out, nil
	}), nil
}

// ReduceColors quantizes every loaded document down to 256 colors. All
// documents must be PNGs; the precheck fails before any work is done.
func ReduceColors(sess *session.Session) (Result, error) {
	docs := sess.Documents()
	if len(docs) == 0 {
		return Result{}, ErrNoDocuments
	}
	for _, doc := range docs {
		if strings.ToLower(filepath.Ext(doc.Path)) != ".png" {
			return Result{}, ErrNotAllPNG
		}
	}

	quality := sess.Config().JPEGQuality
	return run(sess, docs, func(doc *session.Document) (*session.Document, error) {
		out, err := saveAndReload(doc.Path, bcimage.Reduce(doc.Image), doc.Meta, quality)
		if err != nil {
			return nil, err
		}
		out.Reduced = true
		return out, nil
	}), nil
}

// run applies transform to every document, collecting failures, and commits
// the surviving set when at least one document made it through.
func run(sess *session.Session, docs []*session.Document, transform transformFunc) Result {
	var res Result
	survivors := make([]*session.Document, 0, len(docs))

	for i, doc := range docs {
		out, err := transform(doc)
		if err != nil {
			klog.Warningf("skipping %s: %v", doc.Path, err)
			res.Failures = append(res.Failures, ItemError{Index: i, Path: doc.Path, Err: err})
			continue
		}
		survivors = append(survivors, out)
		res.Succeeded++
	}

	if res.Succeeded > 0 {
		sess.Commit(survivors)
	}
	return res
}

// saveAndReload persists img under the suffixed output path and reads it
// back, so the returned document always reflects the bytes on disk.
func saveAndReload(srcPath string, img image.Image, meta bcimage.Meta, quality int) (*session.Document, error) {
	outPath := bcimage.AddSuffix(srcPath)
	if err := bcimage.Save(outPath, img, meta, quality); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", outPath, err)
	}
	reloaded, outMeta, err := bcimage.Load(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s: %w", outPath, err)
	}
	return session.NewDocument(outPath, reloaded, outMeta), nil
}
