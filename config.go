package main

import (
	"fyne.io/fyne/v2"
)

type Config struct {
	AutoStart           bool    `json:"auto_start"`
	Volume              float64 `json:"volume"`
	ScanIntervalSeconds int     `json:"scan_interval_seconds"`
	LowStockDays        int     `json:"low_stock_days"`
	ExportDays          int     `json:"export_days"`
}

func loadConfig(app fyne.App) *Config {
	prefs := app.Preferences()

	return &Config{
		AutoStart:           prefs.BoolWithFallback("auto_start", false),
		Volume:              prefs.FloatWithFallback("volume", 0.5),
		ScanIntervalSeconds: prefs.IntWithFallback("scan_interval_seconds", 30),
		LowStockDays:        prefs.IntWithFallback("low_stock_days", 5),
		ExportDays:          prefs.IntWithFallback("export_days", 14),
	}
}

func saveConfig(app fyne.App, config *Config) {
	prefs := app.Preferences()

	prefs.SetBool("auto_start", config.AutoStart)
	prefs.SetFloat("volume", config.Volume)
	prefs.SetInt("scan_interval_seconds", config.ScanIntervalSeconds)
	prefs.SetInt("low_stock_days", config.LowStockDays)
	prefs.SetInt("export_days", config.ExportDays)
}
