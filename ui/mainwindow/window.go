// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"github.com/kbinani/screenshot"
	"k8s.io/klog/v2"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/capture"
	bcimage "github.com/Sawamura-Jun/Batch-Cropper/internal/image"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/session"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/version"
	"github.com/Sawamura-Jun/Batch-Cropper/ui/panels"
	"github.com/Sawamura-Jun/Batch-Cropper/ui/prefs"
	"github.com/Sawamura-Jun/Batch-Cropper/ui/preview"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	cfg   *app.Config
	sess  *session.Session
	prefs *prefs.Prefs

	preview    *preview.Preview
	controls   *panels.ControlPanel
	thumbnails *panels.ThumbnailStrip
}

// New creates a new main window.
func New(fyneApp fyne.App, cfg *app.Config, sess *session.Session) *MainWindow {
	win := fyneApp.NewWindow("Batch-Cropper " + version.Version)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		cfg:    cfg,
		sess:   sess,
		prefs:  prefs.Load(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main layout: the preview above the thumbnail strip,
// with the fixed-width control panel on the right.
func (mw *MainWindow) setupUI() {
	mw.preview = preview.New(mw.cfg)
	mw.thumbnails = panels.NewThumbnailStrip(mw.sess)
	mw.controls = panels.NewControlPanel(mw.sess, mw.preview)
	mw.controls.SetWindow(mw.Window)

	mw.controls.OnOpen(mw.onOpen)
	mw.controls.OnPaste(mw.onPaste)
	mw.controls.OnScreenshot(mw.onScreenshot)
	mw.controls.OnCopy(mw.onCopy)
	mw.preview.OnWheel(mw.onWheelResize)

	left := container.NewBorder(
		nil,                       // top
		mw.thumbnails.Container(), // bottom
		nil,                       // left
		nil,                       // right
		mw.preview,                // center
	)

	// The spacer pins the control panel to its configured width.
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(float32(mw.cfg.RightPanelWidth), 0))
	right := container.NewStack(spacer, mw.controls.Container())

	mw.SetContent(container.NewBorder(nil, nil, nil, right, left))

	w := float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, float64(mw.cfg.WindowWidth)))
	h := float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, float64(mw.cfg.WindowHeight)))
	mw.Resize(fyne.NewSize(w, h))
	mw.CenterOnScreen()

	mw.controls.SetAspectState(
		mw.prefs.String(prefs.KeyAspectRatio),
		mw.prefs.Bool(prefs.KeyAspectLock, true),
	)

	mw.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		paths := make([]string, 0, len(uris))
		for _, uri := range uris {
			paths = append(paths, uri.Path())
		}
		mw.addFiles(paths)
	})

	mw.SetCloseIntercept(func() {
		mw.savePrefs()
		mw.Window.Close()
	})
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Images...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Copy Original", mw.onCopy),
		fyne.NewMenuItem("Paste Image", mw.onPaste),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Take Screenshot", mw.onScreenshot),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupShortcuts registers the clipboard accelerators.
func (mw *MainWindow) setupShortcuts() {
	copyShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(copyShortcut, func(fyne.Shortcut) {
		mw.onCopy()
	})

	pasteShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyV, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(pasteShortcut, func(fyne.Shortcut) {
		mw.onPaste()
	})
}

// setupEventHandlers keeps the preview in sync with the session.
func (mw *MainWindow) setupEventHandlers() {
	mw.sess.On(session.EventDocumentsChanged, func(interface{}) {
		mw.preview.SetDocument(mw.sess.SelectedDocument())
	})
	mw.sess.On(session.EventSelectionChanged, func(interface{}) {
		mw.preview.SetDocument(mw.sess.SelectedDocument())
	})
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		klog.Warningf("failed to save preferences: %v", err)
	}
}

// savePrefs persists the window size and aspect controls on close.
func (mw *MainWindow) savePrefs() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	ratio, locked := mw.controls.AspectState()
	mw.prefs.SetString(prefs.KeyAspectRatio, ratio)
	mw.prefs.SetBool(prefs.KeyAspectLock, locked)
	if err := mw.prefs.Save(); err != nil {
		klog.Warningf("failed to save preferences: %v", err)
	}
}

func (mw *MainWindow) addFiles(paths []string) {
	_, errs := mw.sess.AddFiles(paths)
	for _, err := range errs {
		klog.Warningf("failed to load: %v", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.addFiles([]string{path})
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(bcimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onPaste() {
	path, err := capture.Paste(mw.cfg, time.Now())
	if err != nil {
		if errors.Is(err, capture.ErrNoClipboardImage) {
			klog.Warning("clipboard does not contain an image")
			return
		}
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := mw.sess.AddImported(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onScreenshot() {
	path, err := capture.Screenshot(mw.cfg, time.Now())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := mw.sess.AddImported(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// onCopy puts the active document's original image on the clipboard.
// JPEG-backed and color-reduced documents are refused: pasting them back
// re-imports as PNG, which grows the former and undoes the latter.
func (mw *MainWindow) onCopy() {
	doc := mw.sess.SelectedDocument()
	if doc == nil {
		klog.Warning("no preview image to copy")
		return
	}
	ext := strings.ToLower(filepath.Ext(doc.Path))
	if ext == ".jpg" || ext == ".jpeg" {
		dialog.ShowInformation("Copy stopped",
			"JPEG images are not copied to the clipboard because pasting\n"+
				"them back re-encodes to PNG and grows the file.\n"+
				"Use Paste Image to import instead.", mw.Window)
		return
	}
	if doc.Reduced {
		dialog.ShowInformation("Copy stopped",
			"Copying a color-reduced image loses its size savings.\n"+
				"Use Paste Image to import instead.", mw.Window)
		return
	}
	if err := capture.Copy(doc.Image); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// onWheelResize rescales the whole window by one step per wheel notch,
// keeping the configured aspect and staying between the default size and
// the primary display.
func (mw *MainWindow) onWheelResize(dir int) {
	if screenshot.NumActiveDisplays() == 0 {
		return
	}
	display := screenshot.GetDisplayBounds(0)

	minW := float64(mw.cfg.WindowWidth)
	aspect := minW / float64(mw.cfg.WindowHeight)
	maxW := math.Min(float64(display.Dx()), math.Round(float64(display.Dy())*aspect))
	if maxW < minW {
		maxW = minW
	}

	current := float64(mw.Canvas().Size().Width)
	target := current * (1 + mw.cfg.WheelScaleStep*float64(dir))
	target = math.Max(minW, math.Min(target, maxW))

	w := float32(math.Round(target))
	h := float32(math.Round(target / aspect))
	mw.Resize(fyne.NewSize(w, h))
	mw.CenterOnScreen()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Batch-Cropper",
		fmt.Sprintf("Batch-Cropper v%s\n\n"+
			"Crops every loaded image with one shared selection,\n"+
			"with PNG color reduction and clipboard import.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
