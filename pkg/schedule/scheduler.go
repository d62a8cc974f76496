package schedule

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/medtime/medication-time/pkg/models"
)

const (
	// DefaultInterval is the scan cadence.
	DefaultInterval = 30 * time.Second
	// DefaultTolerance is the window around a scheduled time within which a
	// slot counts as due. Rescanning from persisted state keeps the engine
	// self-healing against concurrent edits at the cost of this bounded
	// imprecision.
	DefaultTolerance = 60 * time.Second
)

// Store is the record-store surface the scheduler reads each cycle.
type Store interface {
	ListPersons() ([]models.Person, error)
	MedicationStore
}

// SessionHandler receives each freshly created session for presentation.
// It is called from the scan goroutine and must hand the session off to the
// UI event loop rather than build widgets itself.
type SessionHandler func(*Session)

// Scheduler periodically scans every person's medications, groups the slots
// due right now per (person, clock time) and raises one session per group.
type Scheduler struct {
	Interval  time.Duration
	Tolerance time.Duration

	store   Store
	handler SessionHandler
	dedup   *DedupMemory
	logger  DoseLogger
	now     func() time.Time

	mu   sync.Mutex
	open map[string]*Session // personID -> live session
}

func NewScheduler(store Store, handler SessionHandler) *Scheduler {
	return &Scheduler{
		Interval:  DefaultInterval,
		Tolerance: DefaultTolerance,
		store:     store,
		handler:   handler,
		dedup:     NewDedupMemory(),
		now:       time.Now,
		open:      make(map[string]*Session),
	}
}

// SetDoseLogger wires an optional dose-history sink into session resolution.
func (s *Scheduler) SetDoseLogger(l DoseLogger) {
	s.logger = l
}

// Run scans once immediately, then on the fixed cadence until ctx is
// cancelled. Failures inside a cycle are logged and absorbed so one bad
// cycle cannot stop the next.
func (s *Scheduler) Run(ctx context.Context) {
	s.Scan()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan()
		}
	}
}

type pendingGroup struct {
	person  models.Person
	slot    models.ClockTime
	entries []Entry
}

// Scan performs one scheduling cycle.
func (s *Scheduler) Scan() {
	now := s.now()
	today := models.DateOf(now)

	if s.dedup.ResetIfNewDay(today) {
		log.Printf("New day %s, daily alert memory cleared", models.FormatDate(today))
	}

	// Re-read the whole store every cycle so edits made through the editor
	// are picked up without any invalidation plumbing.
	persons, err := s.store.ListPersons()
	if err != nil {
		log.Printf("Scan: reading persons: %v", err)
		return
	}

	date := models.FormatDate(today)
	groups := map[string]*pendingGroup{}
	var order []string

	for _, person := range persons {
		for i, med := range person.Medications {
			if Expired(&med, today) {
				continue
			}
			if !IsDosingDay(&med, today) {
				continue
			}
			for _, raw := range med.ScheduledTimes {
				ct, err := models.ParseClockTime(raw)
				if err != nil {
					// Without a trigger moment there is nothing to fire.
					log.Printf("Scan: %s/%s: %v", person.DisplayName(), med.Name, err)
					continue
				}

				diff := now.Sub(ct.On(today))
				if diff < 0 {
					diff = -diff
				}
				if diff > s.Tolerance {
					continue
				}

				key := SlotKey{Date: date, PersonID: person.ID, Index: i, Time: ct.String()}
				if s.dedup.Contains(key) {
					continue
				}

				gk := person.ID + "|" + ct.String()
				group, ok := groups[gk]
				if !ok {
					group = &pendingGroup{person: person, slot: ct}
					groups[gk] = group
					order = append(order, gk)
				}
				group.entries = append(group.entries, Entry{Medication: med, Index: i, Key: key})
			}
		}
	}

	for _, gk := range order {
		s.fire(groups[gk])
	}
}

// fire hands one pending group to the presentation layer, unless the person
// already has a live session. Suppressed slots stay uncommitted, so they are
// re-discovered once the open session resolves.
func (s *Scheduler) fire(group *pendingGroup) {
	s.mu.Lock()
	if _, live := s.open[group.person.ID]; live {
		s.mu.Unlock()
		log.Printf("Alert for %s at %s suppressed, session already open", group.person.DisplayName(), group.slot)
		return
	}

	sess := newSession(&group.person, group.slot, group.entries, s.store, s.dedup, s.logger, s.release)
	s.open[group.person.ID] = sess
	s.mu.Unlock()

	log.Printf("Alert: %s at %s, %d medication(s)", group.person.DisplayName(), group.slot, len(group.entries))
	s.handler(sess)
}

func (s *Scheduler) release(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open[sess.PersonID] == sess {
		delete(s.open, sess.PersonID)
	}
}

// HasOpenSession reports whether a live session exists for the person.
func (s *Scheduler) HasOpenSession(personID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.open[personID]
	return ok
}
