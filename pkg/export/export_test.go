package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/medtime/medication-time/pkg/models"
	"github.com/medtime/medication-time/pkg/store"
)

func TestWriteDoseHistoryCSV(t *testing.T) {
	records := []store.DoseRecord{
		{
			PersonID:   "p1",
			Medication: "Lisinopril",
			SlotTime:   "08:00",
			Action:     "taken",
			LoggedAt:   time.Date(2024, 6, 10, 8, 0, 30, 0, time.UTC),
		},
		{
			PersonID:   "p1",
			Medication: "Metformin",
			SlotTime:   "20:00",
			Action:     "skipped",
			LoggedAt:   time.Date(2024, 6, 10, 20, 1, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	if err := WriteDoseHistoryCSV(&buf, records); err != nil {
		t.Fatalf("WriteDoseHistoryCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if lines[0] != "logged_at,medication,slot_time,action" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Lisinopril") || !strings.HasSuffix(lines[1], "taken") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "Metformin") || !strings.HasSuffix(lines[2], "skipped") {
		t.Errorf("unexpected second row: %s", lines[2])
	}
}

func TestWriteDoseHistoryCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDoseHistoryCSV(&buf, nil); err != nil {
		t.Fatalf("WriteDoseHistoryCSV failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "logged_at,medication,slot_time,action" {
		t.Errorf("empty history should still write the header, got %q", got)
	}
}

func testPersons() []models.Person {
	return []models.Person{{
		ID:        "p1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Medications: []models.Medication{
			{
				Name:           "Lisinopril",
				Doctor:         "Dr. Wu",
				Frequency:      models.FreqOncePerDay,
				PrescribedDate: "2024-06-01",
				ScheduledTimes: []string{"08:00"},
			},
			{
				Name:           "Alendronate",
				Frequency:      models.FreqOncePerWeek,
				PrescribedDate: "2024-06-01",
				ScheduledTimes: []string{"09:00"},
			},
		},
	}}
}

func TestDoseCalendarEvents(t *testing.T) {
	from, _ := models.ParseDate("2024-06-08")

	cal := DoseCalendar(testPersons(), from, 7)

	var buf bytes.Buffer
	if err := WriteICS(&buf, cal); err != nil {
		t.Fatalf("WriteICS failed: %v", err)
	}
	out := buf.String()

	// Daily medication appears once per covered day.
	if got := strings.Count(out, "Ada Lovelace: Lisinopril"); got != 7 {
		t.Errorf("daily medication has %d events, want 7", got)
	}
	// Weekly medication doses on June 8th only within this window.
	if got := strings.Count(out, "Ada Lovelace: Alendronate"); got != 1 {
		t.Errorf("weekly medication has %d events, want 1", got)
	}
	if !strings.Contains(out, "Prescribed by Dr. Wu") {
		t.Error("doctor description missing")
	}
	if !strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("no events encoded")
	}
}

func TestDoseCalendarSkipsExpired(t *testing.T) {
	persons := testPersons()
	persons[0].Medications[0].StopAfterDate = "2024-06-09"
	from, _ := models.ParseDate("2024-06-08")

	cal := DoseCalendar(persons, from, 7)

	var buf bytes.Buffer
	if err := WriteICS(&buf, cal); err != nil {
		t.Fatal(err)
	}
	// Active on the 8th and 9th, expired after.
	if got := strings.Count(buf.String(), "Ada Lovelace: Lisinopril"); got != 2 {
		t.Errorf("stopped medication has %d events, want 2", got)
	}
}

func TestDoseCalendarSkipsSlotsBeforeFrom(t *testing.T) {
	day, _ := models.ParseDate("2024-06-08")
	from := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local)

	cal := DoseCalendar(testPersons(), from, 1)

	if len(cal.Children) != 0 {
		t.Errorf("dose times already past produced %d events", len(cal.Children))
	}

	var buf bytes.Buffer
	if err := WriteICS(&buf, cal); !errors.Is(err, ErrNoEvents) {
		t.Errorf("empty window error = %v, want ErrNoEvents", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty window wrote %d bytes", buf.Len())
	}
}
