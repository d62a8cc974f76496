package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/medtime/medication-time/pkg/models"
)

// mockStore implements Store for scan tests.
type mockStore struct {
	mu      sync.Mutex
	persons []models.Person
	listErr error
}

func (m *mockStore) ListPersons() ([]models.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Person, len(m.persons))
	copy(out, m.persons)
	return out, nil
}

func (m *mockStore) UpdateMedications(personID string, mutate func([]models.Medication) []models.Medication) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.persons {
		if m.persons[i].ID == personID {
			m.persons[i].Medications = mutate(m.persons[i].Medications)
			return nil
		}
	}
	return errors.New("person not found")
}

// sessionCollector gathers raised sessions without presenting anything.
type sessionCollector struct {
	mu       sync.Mutex
	sessions []*Session
}

func (c *sessionCollector) handle(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append(c.sessions, sess)
}

func (c *sessionCollector) all() []*Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Session{}, c.sessions...)
}

func newTestScheduler(store Store, at time.Time) (*Scheduler, *sessionCollector) {
	collector := &sessionCollector{}
	s := NewScheduler(store, collector.handle)
	s.now = func() time.Time { return at }
	return s, collector
}

func at(t *testing.T, date, clock string) time.Time {
	t.Helper()
	d, err := models.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := models.ParseClockTime(clock)
	if err != nil {
		t.Fatal(err)
	}
	return ct.On(d)
}

func singlePersonStore(meds ...models.Medication) *mockStore {
	return &mockStore{persons: []models.Person{
		{ID: "p1", FirstName: "Ada", LastName: "Lovelace", Medications: meds},
	}}
}

func TestScanFiresDueSlot(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Lisinopril",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-06-01",
		Stock:          10,
		ScheduledTimes: []string{"08:00"},
	})
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	sessions := collector.all()
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	sess := sessions[0]
	if sess.PersonID != "p1" {
		t.Errorf("PersonID = %s, want p1", sess.PersonID)
	}
	if got := sess.SlotTime.String(); got != "08:00" {
		t.Errorf("SlotTime = %s, want 08:00", got)
	}
	if entries := sess.Entries(); len(entries) != 1 || entries[0].Medication.Name != "Lisinopril" {
		t.Errorf("unexpected entries %+v", entries)
	}
	if !s.HasOpenSession("p1") {
		t.Error("session should be registered as open")
	}
}

func TestScanToleranceWindow(t *testing.T) {
	med := models.Medication{
		Name:           "Lisinopril",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-06-01",
		ScheduledTimes: []string{"08:00"},
	}

	tests := []struct {
		clock string
		fires bool
	}{
		{"07:58", false}, // 120s early
		{"07:59", true},  // 60s early, on the edge
		{"08:00", true},
		{"08:01", true},  // 60s late, on the edge
		{"08:02", false}, // 120s late
	}
	for _, tt := range tests {
		s, collector := newTestScheduler(singlePersonStore(med), at(t, "2024-06-10", tt.clock))
		s.Scan()
		if fired := len(collector.all()) == 1; fired != tt.fires {
			t.Errorf("scan at %s fired=%v, want %v", tt.clock, fired, tt.fires)
		}
	}
}

func TestScanGroupsSameTimeIntoOneSession(t *testing.T) {
	store := singlePersonStore(
		models.Medication{Name: "Lisinopril", Frequency: models.FreqOncePerDay, PrescribedDate: "2024-06-01", ScheduledTimes: []string{"08:00"}},
		models.Medication{Name: "Metformin", Frequency: models.FreqTwiceDaily, PrescribedDate: "2024-06-01", ScheduledTimes: []string{"08:00", "20:00"}},
	)
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	sessions := collector.all()
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1 coalesced prompt", len(sessions))
	}
	entries := sessions[0].Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want both medications", len(entries))
	}
	if entries[0].Medication.Name != "Lisinopril" || entries[1].Medication.Name != "Metformin" {
		t.Errorf("unexpected entry order: %s, %s", entries[0].Medication.Name, entries[1].Medication.Name)
	}
}

func TestScanDoesNotRefireResolvedSlot(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Lisinopril",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-06-01",
		Stock:          10,
		ScheduledTimes: []string{"08:00"},
	})
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()
	collector.all()[0].Cancel()

	// Next cycle, 30 seconds later, still inside the tolerance window.
	s.now = func() time.Time { return at(t, "2024-06-10", "08:00").Add(30 * time.Second) }
	s.Scan()

	if got := len(collector.all()); got != 1 {
		t.Errorf("slot re-fired, got %d sessions, want 1", got)
	}
}

func TestScanSuppressesWhileSessionOpen(t *testing.T) {
	store := singlePersonStore(
		models.Medication{Name: "Lisinopril", Frequency: models.FreqOncePerDay, PrescribedDate: "2024-06-01", ScheduledTimes: []string{"08:00"}},
	)
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))
	s.Scan()

	// A second slot comes due while the first prompt is still on screen.
	store.mu.Lock()
	store.persons[0].Medications = append(store.persons[0].Medications,
		models.Medication{Name: "Metformin", Frequency: models.FreqOncePerDay, PrescribedDate: "2024-06-01", ScheduledTimes: []string{"08:01"}})
	store.mu.Unlock()

	s.now = func() time.Time { return at(t, "2024-06-10", "08:01") }
	s.Scan()

	sessions := collector.all()
	if len(sessions) != 1 {
		t.Fatalf("suppression failed, got %d sessions", len(sessions))
	}

	// Once the open session resolves the suppressed slot fires on the next
	// cycle; its key was never committed.
	sessions[0].Cancel()
	s.Scan()

	sessions = collector.all()
	if len(sessions) != 2 {
		t.Fatalf("suppressed slot lost, got %d sessions, want 2", len(sessions))
	}
	if entries := sessions[1].Entries(); len(entries) != 1 || entries[0].Medication.Name != "Metformin" {
		t.Errorf("unexpected second session entries %+v", sessions[1].Entries())
	}
}

func TestScanSkipsExpiredMedication(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Prednisone",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-05-01",
		StopAfterDate:  "2024-06-09",
		ScheduledTimes: []string{"08:00"},
	})
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	if got := len(collector.all()); got != 0 {
		t.Errorf("expired medication fired %d sessions", got)
	}
}

func TestScanSkipsOffCadenceDay(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Alendronate",
		Frequency:      models.FreqOncePerWeek,
		PrescribedDate: "2024-06-01",
		ScheduledTimes: []string{"08:00"},
	})
	// June 10th is nine days after prescription, not a multiple of seven.
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	if got := len(collector.all()); got != 0 {
		t.Errorf("off-cadence day fired %d sessions", got)
	}
}

func TestScanSkipsUnparsableTime(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Lisinopril",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-06-01",
		ScheduledTimes: []string{"morning", "08:00"},
	})
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	sessions := collector.all()
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if entries := sessions[0].Entries(); len(entries) != 1 {
		t.Errorf("unparsable time produced an entry: %+v", entries)
	}
}

func TestScanAbsorbsStoreError(t *testing.T) {
	store := &mockStore{listErr: errors.New("disk on fire")}
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	if got := len(collector.all()); got != 0 {
		t.Errorf("errored scan fired %d sessions", got)
	}
}

func TestScanMidnightRolloverRearms(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Melatonin",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-06-01",
		Stock:          10,
		ScheduledTimes: []string{"23:59"},
	})
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "23:59"))

	s.Scan()
	sessions := collector.all()
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	sessions[0].Cancel()

	// Just past midnight the same wall-clock slot is a new calendar date and
	// still within tolerance of 23:59.
	s.now = func() time.Time { return at(t, "2024-06-10", "23:59").Add(90 * time.Second) }
	s.Scan()

	if got := len(collector.all()); got != 1 {
		t.Errorf("got %d sessions after rollover, want 1 (23:59 is outside tolerance of 00:00:30)", got)
	}

	// The next evening the slot fires again.
	s.now = func() time.Time { return at(t, "2024-06-11", "23:59") }
	s.Scan()

	if got := len(collector.all()); got != 2 {
		t.Errorf("slot did not re-arm on the new day, got %d sessions", got)
	}
}

func TestScanSeparateTimesSeparateSessionsAcrossPersons(t *testing.T) {
	store := &mockStore{persons: []models.Person{
		{ID: "p1", FirstName: "Ada", Medications: []models.Medication{
			{Name: "Lisinopril", Frequency: models.FreqOncePerDay, PrescribedDate: "2024-06-01", ScheduledTimes: []string{"08:00"}},
		}},
		{ID: "p2", FirstName: "Grace", Medications: []models.Medication{
			{Name: "Metformin", Frequency: models.FreqOncePerDay, PrescribedDate: "2024-06-01", ScheduledTimes: []string{"08:00"}},
		}},
	}}
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()

	sessions := collector.all()
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want one per person", len(sessions))
	}
	if sessions[0].PersonID == sessions[1].PersonID {
		t.Error("both sessions belong to the same person")
	}
}

func TestSessionWriteBackThroughScheduler(t *testing.T) {
	store := singlePersonStore(models.Medication{
		Name:           "Lisinopril",
		Frequency:      models.FreqOncePerDay,
		PrescribedDate: "2024-06-01",
		Stock:          10,
		ScheduledTimes: []string{"08:00"},
	})
	s, collector := newTestScheduler(store, at(t, "2024-06-10", "08:00"))

	s.Scan()
	sess := collector.all()[0]
	sess.MarkAllTaken()

	store.mu.Lock()
	got := store.persons[0].Medications[0].Stock
	store.mu.Unlock()
	if got != 9 {
		t.Errorf("stock = %d, want 9", got)
	}
	if s.HasOpenSession("p1") {
		t.Error("resolved session should be released")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &mockStore{}
	s, _ := newTestScheduler(store, at(t, "2024-06-10", "12:00"))
	s.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
