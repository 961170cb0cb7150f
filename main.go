// Package main provides the entry point for the Batch-Cropper application.
package main

import (
	"flag"
	"fmt"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"k8s.io/klog/v2"

	"github.com/Sawamura-Jun/Batch-Cropper/internal/app"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/capture"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/session"
	"github.com/Sawamura-Jun/Batch-Cropper/internal/version"
	"github.com/Sawamura-Jun/Batch-Cropper/ui/mainwindow"
)

func main() {
	klog.InitFlags(nil)
	configPath := flag.String("config", "", "config file path (default is the user config dir)")
	showVersion := flag.Bool("version", false, "print version and exit")
	dev := flag.Bool("dev", false, "restart automatically when the binary is rebuilt")
	flag.Parse()
	defer klog.Flush()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = app.ConfigPath()
		if err != nil {
			klog.Warningf("config path unavailable, using defaults: %v", err)
		}
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		klog.Exitf("failed to load config: %v", err)
	}

	klog.Infof("starting Batch-Cropper %s", version.String())

	if err := capture.InitClipboard(); err != nil {
		klog.Warningf("clipboard unavailable: %v", err)
	}

	sess := session.NewSession(cfg)

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.CropperTheme{})

	win := mainwindow.New(fyneApp, cfg, sess)

	// Images named on the command line are loaded at startup.
	if args := flag.Args(); len(args) > 0 {
		if _, errs := sess.AddFiles(args); len(errs) > 0 {
			for _, err := range errs {
				klog.Warningf("failed to load: %v", err)
			}
		}
	}

	if *dev {
		setupReload()
	}

	win.ShowAndRun()
}

// setupReload restarts the process when the binary on disk is replaced.
func setupReload() {
	reloader, err := app.NewReloader()
	if err != nil {
		klog.Warningf("reload watcher unavailable: %v", err)
		return
	}

	reloader.OnReplace(func() {
		klog.Info("binary replaced, restarting")
		if err := reloader.Restart(); err != nil {
			klog.Errorf("restart failed: %v", err)
			os.Exit(1)
		}
	})

	reloader.Start()
}
