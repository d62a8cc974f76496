package models

import "time"

// Frequency is the dosing cadence of a medication. The values match the
// strings persisted in the record store.
type Frequency string

const (
	FreqOncePerDay      Frequency = "once per day"
	FreqTwiceDaily      Frequency = "twice daily"
	FreqThreeTimesDaily Frequency = "three times daily"
	FreqEveryOtherDay   Frequency = "every other day"
	FreqOncePerWeek     Frequency = "once per week"
	FreqOncePerMonth    Frequency = "once per month"
)

// FrequencyOptions lists the selectable cadences for the editor.
var FrequencyOptions = []string{
	string(FreqOncePerDay),
	string(FreqTwiceDaily),
	string(FreqThreeTimesDaily),
	string(FreqEveryOtherDay),
	string(FreqOncePerWeek),
	string(FreqOncePerMonth),
}

// Medication is one prescription entry. The JSON tags are the persisted
// record format; date fields keep their stored text form and are parsed
// on use so that a malformed date degrades to fail-open alerting instead
// of corrupting the record.
type Medication struct {
	Name           string    `json:"medication_name"`
	Doctor         string    `json:"doctor_name"`
	PrescribedDate string    `json:"date_prescribed"`
	StopAfterDate  string    `json:"stop_after_date,omitempty"`
	Frequency      Frequency `json:"dosage_instructions"`
	Stock          int       `json:"stock"`
	ScheduledTimes []string  `json:"scheduled_times"`
}

// PrescribedOn parses the prescribed date. ok is false when the field is
// empty or unparsable.
func (m *Medication) PrescribedOn() (time.Time, bool) {
	return parseDateField(m.PrescribedDate)
}

// StopsAfter parses the optional stop date. ok is false when the field is
// empty or unparsable.
func (m *Medication) StopsAfter() (time.Time, bool) {
	return parseDateField(m.StopAfterDate)
}

func parseDateField(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
