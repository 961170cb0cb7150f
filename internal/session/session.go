package session

import (
	"fmt"
	"path/filepath"
	"sync"

	"k8s.io/klog/v2"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
)

// EventType identifies session events.
type EventType int

const (
	EventDocumentsChanged EventType = iota
	EventSelectionChanged
	EventHistoryChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session owns the ordered working set of documents, the selected index,
// and the undo history. The UI goroutine is the only writer; the mutex
// covers listeners reading from emit callbacks.
type Session struct {
	mu  sync.RWMutex
	cfg *app.Config

	docs     []*Document
	selected int
	history  *History

	listeners map[EventType][]EventListener
}

// NewSession creates an empty session.
func NewSession(cfg *app.Config) *Session {
	return &Session{
		cfg:       cfg,
		selected:  -1,
		history:   NewHistory(cfg.MaxHistory),
		listeners: make(map[EventType][]EventListener),
	}
}

// Config returns the configuration the session was built with.
func (s *Session) Config() *app.Config {
	return s.cfg
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Len returns the number of loaded documents.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Documents returns a copy of the document list.
func (s *Session) Documents() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Document(nil), s.docs...)
}

// Document returns the document at index i, or nil when out of range.
func (s *Session) Document(i int) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.docs) {
		return nil
	}
	return s.docs[i]
}

// Selected returns the selected index, -1 when the session is empty.
func (s *Session) Selected() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectedDocument returns the selected document, nil when none.
func (s *Session) SelectedDocument() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 || s.selected >= len(s.docs) {
		return nil
	}
	return s.docs[s.selected]
}

// Select moves the selection to index i.
func (s *Session) Select(i int) {
	s.mu.Lock()
	if i < 0 || i >= len(s.docs) || i == s.selected {
		s.mu.Unlock()
		return
	}
	s.selected = i
	s.mu.Unlock()

	s.Emit(EventSelectionChanged, i)
}

// AddFiles loads paths into the working set. Paths already present and
// unsupported extensions are skipped silently; decode failures are
// collected and returned. Adding resets the history to a fresh baseline
// snapshot and selects the first document.
func (s *Session) AddFiles(paths []string) (int, []error) {
	var errs []error
	added := 0

	for _, path := range paths {
		if !bcimage.IsSupportedFormat(path) {
			klog.V(1).Infof("skipping unsupported file %s", path)
			continue
		}
		clean := cleanPath(path)
		if s.hasPath(clean) {
			klog.V(1).Infof("skipping already loaded file %s", clean)
			continue
		}

		img, meta, err := bcimage.Load(clean)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", clean, err))
			continue
		}

		s.mu.Lock()
		s.docs = append(s.docs, NewDocument(clean, img, meta))
		s.mu.Unlock()
		added++
	}

	if added > 0 {
		s.mu.Lock()
		s.history.Clear()
		s.history.Push(s.docs)
		s.selected = 0
		depth := s.history.Depth()
		s.mu.Unlock()

		s.Emit(EventDocumentsChanged, nil)
		s.Emit(EventSelectionChanged, 0)
		s.Emit(EventHistoryChanged, depth)
	}
	return added, errs
}

// AddImported loads a freshly captured file (clipboard paste or screen
// shot) and appends it. Imports clear prior history before pushing their
// baseline, so they cannot be reverted past, and the new document is
// selected.
func (s *Session) AddImported(path string) error {
	img, meta, err := bcimage.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load imported file: %w", err)
	}

	s.mu.Lock()
	s.docs = append(s.docs, NewDocument(cleanPath(path), img, meta))
	s.history.Clear()
	s.history.Push(s.docs)
	s.selected = len(s.docs) - 1
	selected := s.selected
	depth := s.history.Depth()
	s.mu.Unlock()

	s.Emit(EventDocumentsChanged, nil)
	s.Emit(EventSelectionChanged, selected)
	s.Emit(EventHistoryChanged, depth)
	return nil
}

// Commit replaces the working set after a batch transform, pushes a
// history snapshot, and keeps the selection when it still points at a
// document, resetting it to 0 otherwise.
func (s *Session) Commit(docs []*Document) {
	s.mu.Lock()
	s.docs = docs
	if s.selected < 0 || s.selected >= len(docs) {
		s.selected = 0
	}
	if len(docs) == 0 {
		s.selected = -1
	}
	selected := s.selected
	s.history.Push(docs)
	depth := s.history.Depth()
	s.mu.Unlock()

	s.Emit(EventDocumentsChanged, nil)
	s.Emit(EventSelectionChanged, selected)
	s.Emit(EventHistoryChanged, depth)
}

// CanRevert reports whether a revert would restore anything.
func (s *Session) CanRevert() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanRevert()
}

// HistoryDepth returns the number of stored snapshots.
func (s *Session) HistoryDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Depth()
}

// Revert undoes the latest batch transform: the current working set is
// discarded, the previous snapshot restored, and output files introduced
// by the discarded step are cleaned up from disk.
func (s *Session) Revert() error {
	s.mu.Lock()
	snap, ok := s.history.Revert()
	if !ok {
		s.mu.Unlock()
		return ErrNoHistory
	}

	dropped := s.docs
	restored := snap.restore()
	cleanupArtifacts(dropped, restored, s.cfg.JPEGQuality)

	s.docs = restored
	if s.selected >= len(restored) {
		s.selected = 0
	}
	if len(restored) == 0 {
		s.selected = -1
	}
	selected := s.selected
	depth := s.history.Depth()
	s.mu.Unlock()

	s.Emit(EventDocumentsChanged, nil)
	s.Emit(EventSelectionChanged, selected)
	s.Emit(EventHistoryChanged, depth)
	return nil
}

// Clear removes all documents, the selection, and the history.
func (s *Session) Clear() {
	s.mu.Lock()
	s.docs = nil
	s.selected = -1
	s.history.Clear()
	s.mu.Unlock()

	s.Emit(EventDocumentsChanged, nil)
	s.Emit(EventSelectionChanged, -1)
	s.Emit(EventHistoryChanged, 0)
}

func (s *Session) hasPath(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.Path == path {
			return true
		}
	}
	return false
}

// cleanPath normalizes a path for dedup comparison.
func cleanPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
