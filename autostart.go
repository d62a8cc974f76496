package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// setupAutostart brings the login-item state in line with the saved setting.
// Called on startup and on every settings save, so toggling the checkbox is
// all it takes to add or remove the entry.
func setupAutostart(enable bool) error {
	entry, err := autostartEntry()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	switch {
	case enable && !entry.IsEnabled():
		if err := entry.Enable(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		log.Println("Autostart enabled")
	case !enable && entry.IsEnabled():
		if err := entry.Disable(); err != nil {
			return fmt.Errorf("failed to disable autostart: %w", err)
		}
		log.Println("Autostart disabled")
	}
	return nil
}

// autostartEntry describes the login item. It points at the running binary
// with symlinks resolved; after relocating the install, a settings re-save
// refreshes it.
func autostartEntry() (*autostart.App, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return &autostart.App{
		Name:        "medication-time",
		DisplayName: "Medication Time",
		Exec:        []string{exe},
	}, nil
}
