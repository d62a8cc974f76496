package schedule

import "github.com/medtime/medication-time/pkg/models"

// DaysOfSupply estimates how many calendar days the remaining stock lasts.
// Feeds low-stock warnings only; it plays no part in alert scheduling.
func DaysOfSupply(stock int, freq models.Frequency, scheduledTimes []string) int {
	dosesPerDay := len(scheduledTimes)
	if dosesPerDay < 1 {
		dosesPerDay = 1
	}

	multiplier := 1
	switch freq {
	case models.FreqEveryOtherDay:
		multiplier = 2
	case models.FreqOncePerWeek:
		multiplier = 7
	case models.FreqOncePerMonth:
		multiplier = 30
	}

	return stock * multiplier / dosesPerDay
}
