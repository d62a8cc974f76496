package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/medtime/medication-time/pkg/schedule"
)

// AlertWindow renders one alert session: every medication due for one person
// at one trigger moment, with a taken/skip toggle per entry. Whatever way
// the window goes away, the session resolves exactly once.
type AlertWindow struct {
	window     fyne.Window
	app        fyne.App
	session    *schedule.Session
	onResolved func()

	takenButtons []*widget.Button
	skipButtons  []*widget.Button
	audioPlayer  *AudioPlayer
}

func NewAlertWindow(app fyne.App, session *schedule.Session, onResolved func()) *AlertWindow {
	aw := &AlertWindow{
		app:        app,
		session:    session,
		onResolved: onResolved,
	}

	aw.audioPlayer = playAlertSound()

	// Create window and build UI on the main Fyne thread; the caller is the
	// scan goroutine.
	fyne.Do(func() {
		aw.window = app.NewWindow("Medication Alert")
		aw.buildUI()
		aw.window.Resize(fyne.NewSize(480, 520))
		aw.window.RequestFocus()

		// Dismissing the window is a valid resolution path: no stock
		// changes, but the slots still count as alerted today.
		aw.window.SetCloseIntercept(func() {
			aw.session.Cancel()
			aw.window.Close()
		})

		aw.window.SetOnClosed(func() {
			if aw.audioPlayer != nil {
				aw.audioPlayer.Stop()
			}
			if aw.onResolved != nil {
				aw.onResolved()
			}
		})
	})

	return aw
}

func (aw *AlertWindow) buildUI() {
	entries := aw.session.Entries()

	title := canvas.NewText(fmt.Sprintf("Time for %s to take medications", aw.session.PersonName), nil)
	title.TextSize = 22
	title.Alignment = fyne.TextAlignCenter

	timeLabel := widget.NewLabel(fmt.Sprintf("Scheduled for %s (%d medication(s))",
		aw.session.SlotTime.Display(), len(entries)))
	timeLabel.Alignment = fyne.TextAlignCenter

	list := container.NewVBox()
	aw.takenButtons = make([]*widget.Button, len(entries))
	aw.skipButtons = make([]*widget.Button, len(entries))

	for i, entry := range entries {
		i := i

		name := widget.NewLabel(fmt.Sprintf("%d. %s", i+1, entry.Medication.Name))
		name.TextStyle = fyne.TextStyle{Bold: true}
		stock := widget.NewLabel(fmt.Sprintf("Stock: %d", entry.Medication.Stock))

		aw.takenButtons[i] = widget.NewButton("Taken", func() {
			aw.session.SetChoice(i, schedule.ChoiceTaken)
			aw.refreshChoices()
		})
		aw.skipButtons[i] = widget.NewButton("Skip", func() {
			aw.session.SetChoice(i, schedule.ChoiceSkipped)
			aw.refreshChoices()
		})

		row := container.NewVBox(
			container.NewBorder(nil, nil, name, stock),
			widget.NewLabel(string(entry.Medication.Frequency)),
			container.NewHBox(aw.takenButtons[i], aw.skipButtons[i]),
			widget.NewSeparator(),
		)
		list.Add(row)
	}

	allTaken := widget.NewButton("All Meds Taken", func() {
		aw.session.MarkAllTaken()
		aw.window.Close()
	})
	allTaken.Importance = widget.HighImportance

	apply := widget.NewButton("Apply Selections", func() {
		aw.session.Apply()
		aw.window.Close()
	})

	cancel := widget.NewButton("Cancel", func() {
		aw.session.Cancel()
		aw.window.Close()
	})

	content := container.NewBorder(
		container.NewVBox(container.NewPadded(title), timeLabel, widget.NewSeparator()),
		container.NewHBox(allTaken, apply, cancel),
		nil, nil,
		container.NewScroll(list),
	)

	aw.window.SetContent(container.NewPadded(content))
}

// refreshChoices mirrors the session's current choices onto the buttons.
func (aw *AlertWindow) refreshChoices() {
	for i, entry := range aw.session.Entries() {
		if i >= len(aw.takenButtons) {
			break
		}
		aw.takenButtons[i].Importance = widget.MediumImportance
		aw.skipButtons[i].Importance = widget.MediumImportance
		switch entry.Choice {
		case schedule.ChoiceTaken:
			aw.takenButtons[i].Importance = widget.SuccessImportance
		case schedule.ChoiceSkipped:
			aw.skipButtons[i].Importance = widget.DangerImportance
		}
		aw.takenButtons[i].Refresh()
		aw.skipButtons[i].Refresh()
	}
}

func (aw *AlertWindow) Show() {
	fyne.Do(func() {
		if aw.window != nil {
			aw.window.Show()
		}
	})
}
