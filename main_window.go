package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/medtime/medication-time/pkg/export"
	"github.com/medtime/medication-time/pkg/models"
	"github.com/medtime/medication-time/pkg/schedule"
)

// MainWindow is the family overview: people on the left, the selected
// person's medications on the right.
type MainWindow struct {
	mt     *MedicationTime
	window fyne.Window

	persons        []models.Person
	selectedPerson int

	personList  *widget.List
	medList     *widget.List
	selectedMed int
	headerLabel *widget.Label
}

func NewMainWindow(mt *MedicationTime) *MainWindow {
	mw := &MainWindow{
		mt:             mt,
		selectedPerson: -1,
		selectedMed:    -1,
	}

	mw.window = mt.app.NewWindow("Medication Time")
	mw.loadPersons()
	mw.buildUI()
	mw.window.Resize(fyne.NewSize(760, 560))
	mw.window.SetOnClosed(func() {
		mt.mainWindow = nil
	})

	return mw
}

func (mw *MainWindow) loadPersons() {
	persons, err := mw.mt.store.ListPersons()
	if err != nil {
		log.Printf("Failed to load persons: %v", err)
		return
	}
	mw.persons = persons
	if mw.selectedPerson >= len(persons) {
		mw.selectedPerson = -1
	}
}

func (mw *MainWindow) currentPerson() *models.Person {
	if mw.selectedPerson < 0 || mw.selectedPerson >= len(mw.persons) {
		return nil
	}
	return &mw.persons[mw.selectedPerson]
}

func (mw *MainWindow) buildUI() {
	mw.personList = widget.NewList(
		func() int { return len(mw.persons) },
		func() fyne.CanvasObject { return widget.NewLabel("template") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(mw.persons) {
				o.(*widget.Label).SetText(mw.persons[i].DisplayName())
			}
		})
	mw.personList.OnSelected = func(id widget.ListItemID) {
		mw.selectedPerson = id
		mw.refreshDetail()
		mw.showLowStockWarnings()
	}

	addPerson := widget.NewButton("Add Person", mw.showAddPersonDialog)
	deletePerson := widget.NewButton("Delete Person", mw.showDeletePersonDialog)

	left := container.NewBorder(
		widget.NewLabel("Family"),
		container.NewVBox(addPerson, deletePerson),
		nil, nil,
		mw.personList,
	)

	mw.headerLabel = widget.NewLabel("Select a family member to begin.")
	mw.headerLabel.TextStyle = fyne.TextStyle{Bold: true}

	mw.medList = widget.NewList(
		func() int {
			if p := mw.currentPerson(); p != nil {
				return len(p.Medications)
			}
			return 0
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("template")
			l.Wrapping = fyne.TextWrapWord
			return l
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			p := mw.currentPerson()
			if p == nil || i >= len(p.Medications) {
				return
			}
			o.(*widget.Label).SetText(mw.renderMedication(&p.Medications[i]))
		})
	mw.medList.OnSelected = func(id widget.ListItemID) {
		mw.selectedMed = id
	}

	buttons := container.NewHBox(
		widget.NewButton("Add Medication", func() { mw.openEditor(-1) }),
		widget.NewButton("Edit", func() { mw.withSelectedMed(mw.openEditor) }),
		widget.NewButton("Modify Stock", func() { mw.withSelectedMed(mw.showStockDialog) }),
		widget.NewButton("Delete", func() { mw.withSelectedMed(mw.showDeleteMedicationDialog) }),
	)
	journalButtons := container.NewHBox(
		widget.NewButton("Add Journal Entry", mw.showJournalEntryDialog),
		widget.NewButton("View Journals", mw.showJournalViewer),
		widget.NewButton("Export History CSV", mw.exportDoseHistory),
	)

	right := container.NewBorder(
		mw.headerLabel,
		container.NewVBox(buttons, journalButtons),
		nil, nil,
		mw.medList,
	)

	toolbar := container.NewHBox(
		widget.NewButton("Settings", mw.mt.showSettingsWindow),
		widget.NewButton("Export Schedule (.ics)", mw.exportSchedule),
	)

	split := container.NewHSplit(left, right)
	split.SetOffset(0.3)

	mw.window.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
}

func (mw *MainWindow) withSelectedMed(f func(index int)) {
	if mw.currentPerson() == nil {
		dialog.ShowInformation("No Person Selected", "Select a family member first.", mw.window)
		return
	}
	if mw.selectedMed < 0 {
		dialog.ShowInformation("No Medication Selected", "Select a medication from the list first.", mw.window)
		return
	}
	f(mw.selectedMed)
}

func (mw *MainWindow) renderMedication(med *models.Medication) string {
	var times []string
	for _, raw := range med.ScheduledTimes {
		if ct, err := models.ParseClockTime(raw); err == nil {
			times = append(times, ct.Display())
		} else {
			times = append(times, raw)
		}
	}

	supply := schedule.DaysOfSupply(med.Stock, med.Frequency, med.ScheduledTimes)
	lines := []string{
		fmt.Sprintf("Medication: %s", med.Name),
		fmt.Sprintf("Doctor: %s", med.Doctor),
		fmt.Sprintf("Prescribed on: %s    Instructions: %s", med.PrescribedDate, med.Frequency),
		fmt.Sprintf("Doses remaining: %d (~%d days)    Scheduled for: %s", med.Stock, supply, strings.Join(times, ", ")),
	}
	if med.StopAfterDate != "" {
		lines = append(lines, fmt.Sprintf("End medication on: %s", med.StopAfterDate))
	}
	return strings.Join(lines, "\n")
}

// Refresh reloads records from the store and redraws both panes.
func (mw *MainWindow) Refresh() {
	mw.loadPersons()
	mw.personList.Refresh()
	mw.refreshDetail()
}

func (mw *MainWindow) refreshDetail() {
	if p := mw.currentPerson(); p != nil {
		mw.headerLabel.SetText(fmt.Sprintf("Prescriptions for: %s", p.DisplayName()))
	} else {
		mw.headerLabel.SetText("Select a family member to begin.")
	}
	mw.selectedMed = -1
	mw.medList.UnselectAll()
	mw.medList.Refresh()
}

func (mw *MainWindow) showAddPersonDialog() {
	first := widget.NewEntry()
	last := widget.NewEntry()
	items := []*widget.FormItem{
		widget.NewFormItem("First name", first),
		widget.NewFormItem("Last name", last),
	}
	dialog.ShowForm("Add Person", "Add", "Cancel", items, func(confirmed bool) {
		if !confirmed || first.Text == "" {
			return
		}
		if _, err := mw.mt.store.AddPerson(first.Text, last.Text); err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		mw.Refresh()
	}, mw.window)
}

func (mw *MainWindow) showDeletePersonDialog() {
	p := mw.currentPerson()
	if p == nil {
		dialog.ShowInformation("No Person Selected", "Select a family member first.", mw.window)
		return
	}
	dialog.ShowConfirm("Delete Person",
		fmt.Sprintf("Delete %s and all their records?", p.DisplayName()),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := mw.mt.store.DeletePerson(p.ID); err != nil {
				dialog.ShowError(err, mw.window)
				return
			}
			mw.selectedPerson = -1
			mw.personList.UnselectAll()
			mw.Refresh()
		}, mw.window)
}

func (mw *MainWindow) exportSchedule() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		cal := export.DoseCalendar(mw.persons, time.Now(), mw.mt.config.ExportDays)
		if err := export.WriteICS(writer, cal); err != nil {
			if errors.Is(err, export.ErrNoEvents) {
				dialog.ShowInformation("Nothing to Export",
					fmt.Sprintf("No dose times scheduled in the next %d days.", mw.mt.config.ExportDays),
					mw.window)
				return
			}
			dialog.ShowError(err, mw.window)
			return
		}
		log.Printf("Dose schedule exported to %s", writer.URI())
	}, mw.window)
}

func (mw *MainWindow) exportDoseHistory() {
	p := mw.currentPerson()
	if p == nil {
		dialog.ShowInformation("No Person Selected", "Select a family member first.", mw.window)
		return
	}

	records, err := mw.mt.store.ListDoseLog(p.ID)
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := export.WriteDoseHistoryCSV(writer, records); err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		log.Printf("Dose history for %s exported to %s", p.DisplayName(), writer.URI())
	}, mw.window)
}

func (mw *MainWindow) Show() {
	mw.window.Show()
}
