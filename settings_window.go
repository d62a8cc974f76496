package main

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// SettingsWindow edits the application configuration. Changes only take
// effect when Save is pressed.
type SettingsWindow struct {
	window fyne.Window
	onSave func(*Config)

	autoStartCheck *widget.Check
	volumeSlider   *widget.Slider
	intervalEntry  *widget.Entry
	lowStockEntry  *widget.Entry
	exportEntry    *widget.Entry

	testPlayer *AudioPlayer
}

func NewSettingsWindow(app fyne.App, config *Config, onSave func(*Config)) *SettingsWindow {
	sw := &SettingsWindow{
		window: app.NewWindow("Settings"),
		onSave: onSave,
	}
	sw.buildUI(config)
	sw.window.Resize(fyne.NewSize(420, 420))
	return sw
}

func (sw *SettingsWindow) buildUI(config *Config) {
	sw.autoStartCheck = widget.NewCheck("Start when I log in", nil)
	sw.autoStartCheck.SetChecked(config.AutoStart)

	volumeLabel := widget.NewLabel(fmt.Sprintf("Alert volume: %d%%", int(config.Volume*100)))
	sw.volumeSlider = widget.NewSlider(0, 1)
	sw.volumeSlider.Step = 0.05
	sw.volumeSlider.Value = config.Volume
	sw.volumeSlider.OnChanged = func(v float64) {
		volumeLabel.SetText(fmt.Sprintf("Alert volume: %d%%", int(v*100)))
	}

	testSound := widget.NewButton("Test Sound", func() {
		setAlertVolume(sw.volumeSlider.Value)
		sw.playTestSound()
	})

	sw.intervalEntry = widget.NewEntry()
	sw.intervalEntry.SetText(strconv.Itoa(config.ScanIntervalSeconds))

	sw.lowStockEntry = widget.NewEntry()
	sw.lowStockEntry.SetText(strconv.Itoa(config.LowStockDays))

	sw.exportEntry = widget.NewEntry()
	sw.exportEntry.SetText(strconv.Itoa(config.ExportDays))

	save := widget.NewButton("Save Settings", func() {
		newConfig, err := sw.collect()
		if err != nil {
			dialog.ShowError(err, sw.window)
			return
		}
		sw.testPlayer.Stop()
		if sw.onSave != nil {
			sw.onSave(newConfig)
		}
		sw.window.Close()
	})
	save.Importance = widget.HighImportance

	content := container.NewVBox(
		widget.NewLabel("General"),
		sw.autoStartCheck,
		widget.NewSeparator(),
		volumeLabel,
		sw.volumeSlider,
		testSound,
		widget.NewSeparator(),
		widget.NewForm(
			widget.NewFormItem("Scan interval (seconds)", sw.intervalEntry),
			widget.NewFormItem("Low stock warning (days)", sw.lowStockEntry),
			widget.NewFormItem("Schedule export window (days)", sw.exportEntry),
		),
		widget.NewSeparator(),
		save,
	)

	sw.window.SetContent(container.NewPadded(content))
}

func (sw *SettingsWindow) collect() (*Config, error) {
	interval, err := strconv.Atoi(sw.intervalEntry.Text)
	if err != nil || interval < 1 {
		return nil, fmt.Errorf("scan interval must be a positive number of seconds")
	}

	lowStock, err := strconv.Atoi(sw.lowStockEntry.Text)
	if err != nil || lowStock < 0 {
		return nil, fmt.Errorf("low stock threshold must be a non-negative number of days")
	}

	exportDays, err := strconv.Atoi(sw.exportEntry.Text)
	if err != nil || exportDays < 1 {
		return nil, fmt.Errorf("export window must be a positive number of days")
	}

	return &Config{
		AutoStart:           sw.autoStartCheck.Checked,
		Volume:              sw.volumeSlider.Value,
		ScanIntervalSeconds: interval,
		LowStockDays:        lowStock,
		ExportDays:          exportDays,
	}, nil
}

// playTestSound previews the alert sound at the slider's volume. A prior
// preview still playing is stopped first so clicks never overlap.
func (sw *SettingsWindow) playTestSound() {
	sw.testPlayer.Stop()
	sw.testPlayer = playAlertSound()
}

func (sw *SettingsWindow) Show() {
	sw.window.Show()
}
