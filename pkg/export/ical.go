// Package export renders dosing data for use outside the app.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/medtime/medication-time/pkg/models"
	"github.com/medtime/medication-time/pkg/schedule"
)

// DoseCalendar builds a VCALENDAR with one VEVENT per upcoming dose slot,
// starting at from and covering the given number of days. Expired
// medications and off-cadence days are left out; malformed scheduled times
// are skipped.
func DoseCalendar(persons []models.Person, from time.Time, days int) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Medication Time//EN")

	for d := 0; d < days; d++ {
		day := models.DateOf(from.AddDate(0, 0, d))
		for _, person := range persons {
			for _, med := range person.Medications {
				if schedule.Expired(&med, day) || !schedule.IsDosingDay(&med, day) {
					continue
				}
				for _, raw := range med.ScheduledTimes {
					ct, err := models.ParseClockTime(raw)
					if err != nil {
						continue
					}
					start := ct.On(day)
					if start.Before(from) {
						continue
					}

					event := ical.NewEvent()
					event.Props.SetText(ical.PropUID, uuid.New().String())
					event.Props.SetDateTime(ical.PropDateTimeStamp, time.Now())
					event.Props.SetDateTime(ical.PropDateTimeStart, start)
					event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(5*time.Minute))
					event.Props.SetText(ical.PropSummary, fmt.Sprintf("%s: %s", person.DisplayName(), med.Name))
					if med.Doctor != "" {
						event.Props.SetText(ical.PropDescription, fmt.Sprintf("Prescribed by %s (%s)", med.Doctor, med.Frequency))
					}
					cal.Children = append(cal.Children, event.Component)
				}
			}
		}
	}

	return cal
}

// ErrNoEvents reports an export window containing no upcoming dose slots.
var ErrNoEvents = errors.New("no dose slots in the export window")

// WriteICS encodes the calendar to w. The encoder rejects a VCALENDAR with
// no components, so an empty window is reported as ErrNoEvents before
// anything is written.
func WriteICS(w io.Writer, cal *ical.Calendar) error {
	if len(cal.Children) == 0 {
		return ErrNoEvents
	}
	return ical.NewEncoder(w).Encode(cal)
}
