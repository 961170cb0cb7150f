package session

import (
	"errors"
	"os"

	"k8s.io/klog/v2"

	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
)

// ErrNoHistory is returned by Revert when fewer than two snapshots exist.
var ErrNoHistory = errors.New("nothing to revert")

// Snapshot is an immutable copy of the working set at a point in time.
type Snapshot struct {
	docs []*Document
}

// Paths returns the file paths captured in the snapshot.
func (s Snapshot) Paths() []string {
	paths := make([]string, len(s.docs))
	for i, d := range s.docs {
		paths[i] = d.Path
	}
	return paths
}

// restore deep-copies the snapshot back into live documents.
func (s Snapshot) restore() []*Document {
	docs := make([]*Document, len(s.docs))
	for i, d := range s.docs {
		docs[i] = d.clone()
	}
	return docs
}

// History keeps a bounded FIFO of working-set snapshots, oldest first.
// The bottom snapshot is the baseline and is never popped, so a single
// entry means there is nothing to revert to.
type History struct {
	limit int
	snaps []Snapshot
}

// NewHistory creates a history bounded to limit snapshots.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push deep-copies docs and appends the snapshot, evicting the oldest
// entry once the bound is exceeded.
func (h *History) Push(docs []*Document) {
	snap := Snapshot{docs: make([]*Document, len(docs))}
	for i, d := range docs {
		snap.docs[i] = d.clone()
	}
	h.snaps = append(h.snaps, snap)
	if len(h.snaps) > h.limit {
		h.snaps = h.snaps[1:]
	}
}

// Depth returns the number of stored snapshots.
func (h *History) Depth() int {
	return len(h.snaps)
}

// CanRevert reports whether a revert would restore anything.
func (h *History) CanRevert() bool {
	return len(h.snaps) >= 2
}

// Revert discards the most recent snapshot and returns the new top.
func (h *History) Revert() (Snapshot, bool) {
	if !h.CanRevert() {
		return Snapshot{}, false
	}
	h.snaps = h.snaps[:len(h.snaps)-1]
	return h.snaps[len(h.snaps)-1], true
}

// Clear drops all snapshots.
func (h *History) Clear() {
	h.snaps = nil
}

// cleanupArtifacts undoes the file-system side of the discarded step:
// suffixed output files that the restored snapshot does not reference are
// deleted, and restored documents whose path still carries the suffix get
// their on-disk bytes rewritten from the restored image. Failures are
// logged per item and never abort the revert.
func cleanupArtifacts(dropped, restored []*Document, fallbackQuality int) {
	kept := make(map[string]bool, len(restored))
	for _, d := range restored {
		kept[d.Path] = true
	}

	for _, d := range dropped {
		if kept[d.Path] || !hasSuffix(d.Path) {
			continue
		}
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			klog.Warningf("revert: failed to remove %s: %v", d.Path, err)
		}
	}

	for _, d := range restored {
		if !hasSuffix(d.Path) {
			continue
		}
		if err := bcimage.Save(d.Path, d.Image, d.Meta, fallbackQuality); err != nil {
			klog.Warningf("revert: failed to rewrite %s: %v", d.Path, err)
		}
	}
}

// hasSuffix reports whether the file stem already carries the cropper
// output suffix, using the idempotence of AddSuffix.
func hasSuffix(path string) bool {
	return path == bcimage.AddSuffix(path)
}
