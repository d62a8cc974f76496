package main

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/medtime/medication-time/pkg/schedule"
	"github.com/medtime/medication-time/pkg/store"
)

type MedicationTime struct {
	app        fyne.App
	config     *Config
	store      *store.Store
	scheduler  *schedule.Scheduler
	cancelScan context.CancelFunc

	mainWindow     *MainWindow
	settingsWindow *SettingsWindow
}

func main() {
	mt := &MedicationTime{
		app: app.New(),
	}

	if err := mt.initialize(); err != nil {
		log.Fatal(err)
	}

	mt.run()
}

func (mt *MedicationTime) initialize() error {
	st, err := store.OpenDefault()
	if err != nil {
		return err
	}
	mt.store = st

	mt.config = loadConfig(mt.app)

	// Sync autostart state with config on startup
	if err := setupAutostart(mt.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	saveConfig(mt.app, mt.config)
	setAlertVolume(mt.config.Volume)

	mt.scheduler = schedule.NewScheduler(mt.store, mt.showSession)
	mt.scheduler.Interval = time.Duration(mt.config.ScanIntervalSeconds) * time.Second
	mt.scheduler.SetDoseLogger(mt.store)

	mt.setupSystemTray()
	mt.startScanLoop()
	mt.showMainWindow()

	return nil
}

func (mt *MedicationTime) run() {
	mt.app.Run()
}

func (mt *MedicationTime) startScanLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	mt.cancelScan = cancel
	go mt.scheduler.Run(ctx)
}

func (mt *MedicationTime) restartScanLoop() {
	if mt.cancelScan != nil {
		mt.cancelScan()
	}
	mt.scheduler.Interval = time.Duration(mt.config.ScanIntervalSeconds) * time.Second
	mt.startScanLoop()
}

// showSession is the scheduler's hand-off point. It runs on the scan
// goroutine; the alert window pushes all widget work onto the Fyne thread.
func (mt *MedicationTime) showSession(sess *schedule.Session) {
	NewAlertWindow(mt.app, sess, mt.onRecordsChanged).Show()
}

// onRecordsChanged refreshes every open view after a session write-back or
// an editor save.
func (mt *MedicationTime) onRecordsChanged() {
	if mt.mainWindow != nil {
		mt.mainWindow.Refresh()
	}
	mt.updateSystemTrayMenu()
}

func (mt *MedicationTime) showMainWindow() {
	if mt.mainWindow != nil {
		mt.mainWindow.Show()
		return
	}
	mt.mainWindow = NewMainWindow(mt)
	mt.mainWindow.Show()
}

func (mt *MedicationTime) showSettingsWindow() {
	if mt.settingsWindow != nil && mt.settingsWindow.window != nil {
		mt.settingsWindow.window.RequestFocus()
		mt.settingsWindow.window.Show()
		return
	}

	mt.settingsWindow = NewSettingsWindow(mt.app, mt.config, func(newConfig *Config) {
		mt.config = newConfig
		saveConfig(mt.app, mt.config)
		setAlertVolume(mt.config.Volume)

		if err := setupAutostart(mt.config.AutoStart); err != nil {
			log.Printf("Warning: failed to setup autostart: %v", err)
		}

		mt.restartScanLoop()
	})
	mt.settingsWindow.window.SetOnClosed(func() {
		mt.settingsWindow = nil
	})
	mt.settingsWindow.Show()
}

func (mt *MedicationTime) quit() {
	if mt.cancelScan != nil {
		mt.cancelScan()
	}
	if mt.store != nil {
		mt.store.Close()
	}
	mt.app.Quit()
}
