package main

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2/dialog"

	"github.com/medtime/medication-time/pkg/models"
	"github.com/medtime/medication-time/pkg/schedule"
)

// showLowStockWarnings pops a refill reminder for the selected person's
// medications that are about to run out. Medications already winding down
// (stop date inside the same window) are not worth a refill trip and are
// left out.
func (mw *MainWindow) showLowStockWarnings() {
	p := mw.currentPerson()
	if p == nil {
		return
	}

	threshold := mw.mt.config.LowStockDays
	today := time.Now()

	var warnings []string
	for _, med := range p.Medications {
		if med.Name == "" || len(med.ScheduledTimes) == 0 {
			continue
		}
		if schedule.Expired(&med, today) {
			continue
		}

		supply := schedule.DaysOfSupply(med.Stock, med.Frequency, med.ScheduledTimes)
		if supply >= threshold {
			continue
		}

		if stop, ok := med.StopsAfter(); ok {
			if models.DaysBetween(today, stop) <= threshold {
				continue
			}
		}

		warnings = append(warnings,
			fmt.Sprintf("%s is running low on %s (about %d days left)", p.FirstName, med.Name, supply))
	}

	if len(warnings) == 0 {
		return
	}
	dialog.ShowInformation("Low Stock Warning", strings.Join(warnings, "\n"), mw.window)
}
