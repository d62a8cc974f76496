package main

import (
	"fmt"
	"log"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/medtime/medication-time/pkg/models"
	"github.com/medtime/medication-time/pkg/schedule"
)

func (mt *MedicationTime) setupSystemTray() {
	mt.updateSystemTrayMenu()
}

func (mt *MedicationTime) updateSystemTrayMenu() {
	desk, ok := mt.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	// Show the next few dose times still ahead of us today
	upcoming := mt.upcomingTodayDoses(5)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming Today:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, dose := range upcoming {
			doseText := fmt.Sprintf("  %s - %s: %s",
				dose.at.Format("3:04 PM"),
				dose.person,
				truncateString(dose.medication, 30))

			doseItem := fyne.NewMenuItem(doseText, nil)
			doseItem.Disabled = true
			menuItems = append(menuItems, doseItem)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Show Medications", func() {
			mt.showMainWindow()
		}),
		fyne.NewMenuItem("Settings", func() {
			mt.showSettingsWindow()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		mt.quit()
	}))

	menu := fyne.NewMenu("Medication Time", menuItems...)
	desk.SetSystemTrayMenu(menu)
}

type upcomingDose struct {
	at         time.Time
	person     string
	medication string
}

// upcomingTodayDoses returns the next N dose slots scheduled for today
// across all family members.
func (mt *MedicationTime) upcomingTodayDoses(limit int) []upcomingDose {
	now := time.Now()

	persons, err := mt.store.ListPersons()
	if err != nil {
		log.Printf("Failed to load persons for tray menu: %v", err)
		return nil
	}

	doses := []upcomingDose{}
	for _, person := range persons {
		for _, med := range person.Medications {
			if med.Name == "" {
				continue
			}
			if schedule.Expired(&med, now) || !schedule.IsDosingDay(&med, now) {
				continue
			}

			for _, raw := range med.ScheduledTimes {
				ct, err := models.ParseClockTime(raw)
				if err != nil {
					continue
				}
				at := ct.On(now)
				if at.After(now) {
					doses = append(doses, upcomingDose{
						at:         at,
						person:     person.FirstName,
						medication: med.Name,
					})
				}
			}
		}
	}

	sort.Slice(doses, func(i, j int) bool {
		return doses[i].at.Before(doses[j].at)
	})
	if len(doses) > limit {
		doses = doses[:limit]
	}
	return doses
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
