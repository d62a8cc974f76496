package schedule

import (
	"time"

	"github.com/medtime/medication-time/pkg/models"
)

// IsDosingDay reports whether today is an active dosing day for the
// medication. A missing or unparsable prescribed date fails open: a record
// we cannot anchor still alerts rather than silently going dark.
func IsDosingDay(med *models.Medication, today time.Time) bool {
	prescribed, ok := med.PrescribedOn()
	if !ok {
		return true
	}

	elapsed := models.DaysBetween(prescribed, today)
	if elapsed < 0 {
		// Not started yet.
		return false
	}

	switch med.Frequency {
	case models.FreqEveryOtherDay:
		return elapsed%2 == 0
	case models.FreqOncePerWeek:
		return elapsed%7 == 0
	case models.FreqOncePerMonth:
		return today.Day() == prescribed.Day()
	default:
		// Daily cadences, and unrecognized values fail open as daily.
		return true
	}
}

// Expired reports whether the medication's stop date has passed.
func Expired(med *models.Medication, today time.Time) bool {
	stop, ok := med.StopsAfter()
	if !ok {
		return false
	}
	return models.DateOf(today).After(models.DateOf(stop))
}
