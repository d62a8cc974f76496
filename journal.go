package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/medtime/medication-time/pkg/models"
)

// showJournalEntryDialog records a free-form note for the selected person,
// dated today.
func (mw *MainWindow) showJournalEntryDialog() {
	p := mw.currentPerson()
	if p == nil {
		dialog.ShowInformation("No Person Selected", "Select a family member first.", mw.window)
		return
	}

	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("How are they doing today?")
	entry.Wrapping = fyne.TextWrapWord

	items := []*widget.FormItem{
		widget.NewFormItem("Note", entry),
	}
	d := dialog.NewForm("Journal Entry for "+p.DisplayName(), "Save", "Cancel", items, func(confirmed bool) {
		text := strings.TrimSpace(entry.Text)
		if !confirmed || text == "" {
			return
		}
		if err := mw.mt.store.AddJournalEntry(p.ID, time.Now(), text); err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		log.Printf("Journal entry added for %s", p.DisplayName())
	}, mw.window)
	d.Resize(fyne.NewSize(420, 300))
	d.Show()
}

// showJournalViewer lists journal entries for the selected person within a
// date range, defaulting to the last 30 days.
func (mw *MainWindow) showJournalViewer() {
	p := mw.currentPerson()
	if p == nil {
		dialog.ShowInformation("No Person Selected", "Select a family member first.", mw.window)
		return
	}

	viewer := mw.mt.app.NewWindow("Journals: " + p.DisplayName())

	now := time.Now()
	fromEntry := widget.NewEntry()
	fromEntry.SetText(models.FormatDate(now.AddDate(0, 0, -30)))
	toEntry := widget.NewEntry()
	toEntry.SetText(models.FormatDate(now))

	var entries []string
	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("template")
			l.Wrapping = fyne.TextWrapWord
			return l
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(entries) {
				o.(*widget.Label).SetText(entries[i])
			}
		})

	reload := func() {
		from, err := models.ParseDate(fromEntry.Text)
		if err != nil {
			dialog.ShowError(err, viewer)
			return
		}
		to, err := models.ParseDate(toEntry.Text)
		if err != nil {
			dialog.ShowError(err, viewer)
			return
		}

		records, err := mw.mt.store.ListJournalEntries(p.ID, from, to)
		if err != nil {
			dialog.ShowError(err, viewer)
			return
		}

		entries = entries[:0]
		for _, rec := range records {
			entries = append(entries, fmt.Sprintf("%s\n%s", models.FormatDate(rec.Date), rec.Text))
		}
		list.Refresh()
	}
	reload()

	controls := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("From", fromEntry),
			widget.NewFormItem("To", toEntry),
		),
		widget.NewButton("Load Entries", reload),
	)

	viewer.SetContent(container.NewBorder(controls, nil, nil, nil, list))
	viewer.Resize(fyne.NewSize(460, 480))
	viewer.Show()
}
