package schedule

import (
	"testing"

	"github.com/medtime/medication-time/pkg/models"
)

func TestDaysOfSupply(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		freq  models.Frequency
		times []string
		want  int
	}{
		{"daily one time", 30, models.FreqOncePerDay, []string{"08:00"}, 30},
		{"daily two times", 30, models.FreqOncePerDay, []string{"08:00", "20:00"}, 15},
		{"twice daily", 14, models.FreqTwiceDaily, []string{"08:00", "20:00"}, 7},
		{"every other day", 15, models.FreqEveryOtherDay, []string{"08:00"}, 30},
		{"weekly", 30, models.FreqOncePerWeek, []string{"08:00"}, 210},
		{"monthly", 3, models.FreqOncePerMonth, []string{"08:00"}, 90},
		{"no scheduled times counts as one dose per day", 10, models.FreqOncePerDay, nil, 10},
		{"integer division floors", 7, models.FreqOncePerDay, []string{"08:00", "14:00", "20:00"}, 2},
		{"zero stock", 0, models.FreqOncePerWeek, []string{"08:00"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysOfSupply(tt.stock, tt.freq, tt.times); got != tt.want {
				t.Errorf("DaysOfSupply(%d, %s, %v) = %d, want %d", tt.stock, tt.freq, tt.times, got, tt.want)
			}
		})
	}
}
