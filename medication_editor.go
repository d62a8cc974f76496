package main

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/medtime/medication-time/pkg/models"
	"github.com/medtime/medication-time/pkg/ui/components"
)

// openEditor opens the medication editor. index -1 adds a new medication,
// otherwise the medication at that list position is edited.
func (mw *MainWindow) openEditor(index int) {
	person := mw.currentPerson()
	if person == nil {
		dialog.ShowInformation("No Person Selected", "Select a family member first.", mw.window)
		return
	}

	editing := index >= 0 && index < len(person.Medications)
	var existing models.Medication
	if editing {
		existing = person.Medications[index]
	}

	title := "Add New Medication"
	if editing {
		title = "Edit Medication"
	}
	editor := mw.mt.app.NewWindow(title)

	nameEntry := widget.NewEntry()
	nameEntry.SetText(existing.Name)

	doctorEntry := widget.NewEntry()
	doctorEntry.SetText(existing.Doctor)

	prescribedEntry := widget.NewEntry()
	prescribedEntry.SetPlaceHolder("YYYY-MM-DD or MM-DD-YYYY")
	prescribedEntry.SetText(existing.PrescribedDate)

	stopEntry := widget.NewEntry()
	stopEntry.SetPlaceHolder("optional")
	stopEntry.SetText(existing.StopAfterDate)

	freqSelect := widget.NewSelect(models.FrequencyOptions, nil)
	if editing {
		freqSelect.SetSelected(string(existing.Frequency))
	} else {
		freqSelect.SetSelected(string(models.FreqOncePerDay))
	}

	stockEntry := widget.NewEntry()
	stockEntry.SetText(strconv.Itoa(existing.Stock))

	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder("HH:MM")
	times := append([]string{}, existing.ScheduledTimes...)
	var timesManager *components.ListManager
	timesManager, timesBox := components.NewListManager(times, timeEntry, components.ListManagerConfig{
		Normalize: func(raw string) (string, error) {
			ct, err := models.ParseClockTime(raw)
			if err != nil {
				return "", err
			}
			return ct.String(), nil
		},
		RenderItem: func(i int) string {
			data := timesManager.GetData()
			if i >= len(data) {
				return ""
			}
			if ct, err := models.ParseClockTime(data[i]); err == nil {
				return fmt.Sprintf("%s (%s)", ct.String(), ct.Display())
			}
			return data[i]
		},
	})

	save := widget.NewButton("Save Medication", func() {
		med, err := buildMedication(nameEntry.Text, doctorEntry.Text, prescribedEntry.Text,
			stopEntry.Text, freqSelect.Selected, stockEntry.Text, timesManager.GetData())
		if err != nil {
			dialog.ShowError(err, editor)
			return
		}

		err = mw.mt.store.UpdateMedications(person.ID, func(meds []models.Medication) []models.Medication {
			if editing && index < len(meds) {
				meds[index] = med
				return meds
			}
			return append(meds, med)
		})
		if err != nil {
			dialog.ShowError(err, editor)
			return
		}

		editor.Close()
		mw.mt.onRecordsChanged()
	})
	save.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Medication name", nameEntry),
			widget.NewFormItem("Doctor name", doctorEntry),
			widget.NewFormItem("Date prescribed", prescribedEntry),
			widget.NewFormItem("Stop after date", stopEntry),
			widget.NewFormItem("Dosage instructions", freqSelect),
			widget.NewFormItem("Quantity on-hand", stockEntry),
		),
		widget.NewLabel("Scheduled dose times"),
		timesBox,
		save,
	)

	editor.SetContent(container.NewPadded(form))
	editor.Resize(fyne.NewSize(420, 560))
	editor.Show()
}

// buildMedication validates editor input and produces a record with
// canonical date and time encodings.
func buildMedication(name, doctor, prescribed, stop, freq, stock string, times []string) (models.Medication, error) {
	med := models.Medication{
		Name:      strings.TrimSpace(name),
		Doctor:    strings.TrimSpace(doctor),
		Frequency: models.Frequency(freq),
	}
	if med.Name == "" {
		return med, fmt.Errorf("medication name is required")
	}

	if strings.TrimSpace(prescribed) != "" {
		d, err := models.ParseDate(prescribed)
		if err != nil {
			return med, err
		}
		med.PrescribedDate = models.FormatDate(d)
	}

	if strings.TrimSpace(stop) != "" {
		d, err := models.ParseDate(stop)
		if err != nil {
			return med, err
		}
		med.StopAfterDate = models.FormatDate(d)
	}

	n, err := strconv.Atoi(strings.TrimSpace(stock))
	if err != nil || n < 0 {
		return med, fmt.Errorf("quantity on-hand must be a non-negative number")
	}
	med.Stock = n

	med.ScheduledTimes = append([]string{}, times...)
	return med, nil
}

// showStockDialog edits a single medication's remaining dose count.
func (mw *MainWindow) showStockDialog(index int) {
	person := mw.currentPerson()
	if person == nil || index >= len(person.Medications) {
		return
	}
	med := person.Medications[index]

	stockEntry := widget.NewEntry()
	stockEntry.SetText(strconv.Itoa(med.Stock))

	items := []*widget.FormItem{
		widget.NewFormItem("New stock quantity", stockEntry),
	}
	dialog.ShowForm("Modify Stock: "+med.Name, "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(stockEntry.Text))
		if err != nil || n < 0 {
			dialog.ShowError(fmt.Errorf("stock must be a non-negative number"), mw.window)
			return
		}

		err = mw.mt.store.UpdateMedications(person.ID, func(meds []models.Medication) []models.Medication {
			if index < len(meds) {
				meds[index].Stock = n
			}
			return meds
		})
		if err != nil {
			dialog.ShowError(err, mw.window)
			return
		}
		mw.mt.onRecordsChanged()
	}, mw.window)
}

func (mw *MainWindow) showDeleteMedicationDialog(index int) {
	person := mw.currentPerson()
	if person == nil || index >= len(person.Medications) {
		return
	}
	name := person.Medications[index].Name

	dialog.ShowConfirm("Confirm Delete",
		fmt.Sprintf("Are you sure you want to delete %q?", name),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			err := mw.mt.store.UpdateMedications(person.ID, func(meds []models.Medication) []models.Medication {
				if index < len(meds) {
					meds = append(meds[:index], meds[index+1:]...)
				}
				return meds
			})
			if err != nil {
				dialog.ShowError(err, mw.window)
				return
			}
			mw.mt.onRecordsChanged()
		}, mw.window)
}
