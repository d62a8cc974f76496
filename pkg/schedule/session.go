package schedule

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medtime/medication-time/pkg/models"
)

// Choice is the caregiver's per-medication decision within a session.
type Choice int

const (
	ChoiceUndecided Choice = iota
	ChoiceTaken
	ChoiceSkipped
)

func (c Choice) String() string {
	switch c {
	case ChoiceTaken:
		return "taken"
	case ChoiceSkipped:
		return "skipped"
	default:
		return "undecided"
	}
}

// Entry is one medication slot shown in a session. Medication is a snapshot
// taken at trigger time; the authoritative record is re-read on resolution.
type Entry struct {
	Medication models.Medication
	Index      int
	Key        SlotKey
	Choice     Choice
}

// MedicationStore is the slice of the record store a session needs to apply
// its outcome. UpdateMedications must run the mutation as one indivisible
// read-modify-write so a scan-triggered decrement cannot race a human edit.
type MedicationStore interface {
	UpdateMedications(personID string, mutate func([]models.Medication) []models.Medication) error
}

// DoseLogger records the outcome of each resolved entry.
type DoseLogger interface {
	LogDose(personID, medication, slotTime, action string, at time.Time) error
}

// Session is one coalesced interactive prompt covering every medication due
// for one person at one trigger moment. It moves from open to resolved
// exactly once; every exit path (apply, mark-all, cancel, window dismissal)
// commits all dedup keys so the prompt never re-fires today.
type Session struct {
	ID          string
	PersonID    string
	PersonName  string
	SlotTime    models.ClockTime
	TriggeredAt time.Time

	mu       sync.Mutex
	entries  []Entry
	resolved bool

	store   MedicationStore
	dedup   *DedupMemory
	logger  DoseLogger
	onClose func(*Session)
}

func newSession(person *models.Person, slot models.ClockTime, entries []Entry, store MedicationStore, dedup *DedupMemory, logger DoseLogger, onClose func(*Session)) *Session {
	return &Session{
		ID:          uuid.New().String(),
		PersonID:    person.ID,
		PersonName:  person.DisplayName(),
		SlotTime:    slot,
		TriggeredAt: time.Now(),
		entries:     entries,
		store:       store,
		dedup:       dedup,
		logger:      logger,
		onClose:     onClose,
	}
}

// Entries returns a snapshot of the session's entries and their current
// choices.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// SetChoice records the caregiver's decision for one entry. Choices are
// mutually exclusive and may be changed any number of times before
// resolution; the last write wins.
func (s *Session) SetChoice(i int, c Choice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved || i < 0 || i >= len(s.entries) {
		return
	}
	s.entries[i].Choice = c
}

// Resolved reports whether the session has already been closed.
func (s *Session) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// MarkAllTaken sets every entry to taken and resolves immediately.
func (s *Session) MarkAllTaken() {
	s.mu.Lock()
	if !s.resolved {
		for i := range s.entries {
			s.entries[i].Choice = ChoiceTaken
		}
	}
	s.mu.Unlock()

	s.resolve(true)
}

// Apply resolves with whatever per-entry choices are currently set.
// Undecided entries cause no stock change but are still marked alerted.
func (s *Session) Apply() {
	s.resolve(true)
}

// Cancel resolves without touching stock. The slots still count as alerted:
// once shown, a session never re-fires for the same slot today.
func (s *Session) Cancel() {
	s.resolve(false)
}

// resolve applies side effects exactly once. A write-back failure still
// consumes the dedup keys and deregisters the session; the acceptable
// failure mode is a missed decrement, never a repeating alert.
func (s *Session) resolve(apply bool) {
	s.mu.Lock()
	if s.resolved {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	if apply {
		if err := s.writeBack(entries); err != nil {
			log.Printf("Session %s: write-back for %s failed: %v", s.ID, s.PersonName, err)
		}
	}

	keys := make([]SlotKey, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	s.dedup.Commit(keys...)

	if s.onClose != nil {
		s.onClose(s)
	}
}

func (s *Session) writeBack(entries []Entry) error {
	err := s.store.UpdateMedications(s.PersonID, func(meds []models.Medication) []models.Medication {
		for _, e := range entries {
			if e.Choice != ChoiceTaken {
				continue
			}
			if e.Index < 0 || e.Index >= len(meds) {
				log.Printf("Session %s: medication %q no longer at index %d, skipping decrement", s.ID, e.Medication.Name, e.Index)
				continue
			}
			if meds[e.Index].Stock > 0 {
				meds[e.Index].Stock--
			}
		}
		return meds
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		now := time.Now()
		for _, e := range entries {
			if e.Choice == ChoiceUndecided {
				continue
			}
			if lerr := s.logger.LogDose(s.PersonID, e.Medication.Name, e.Key.Time, e.Choice.String(), now); lerr != nil {
				log.Printf("Session %s: dose log failed: %v", s.ID, lerr)
			}
		}
	}
	return nil
}
