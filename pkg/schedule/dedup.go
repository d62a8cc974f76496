package schedule

import (
	"sync"
	"time"

	"github.com/medtime/medication-time/pkg/models"
)

// SlotKey identifies one alertable dose slot on one calendar date. Index is
// the medication's position in its person's list; medications carry no
// stable identity of their own in the record format.
type SlotKey struct {
	Date     string // YYYY-MM-DD
	PersonID string
	Index    int
	Time     string // HH:MM
}

// DedupMemory remembers which slots have already been shown or resolved
// today, so a slot alerts at most once per scheduled time per day. Both the
// scan loop and session resolution touch it, hence the lock.
type DedupMemory struct {
	mu       sync.Mutex
	seen     map[SlotKey]struct{}
	lastDate string
}

func NewDedupMemory() *DedupMemory {
	return &DedupMemory{seen: make(map[SlotKey]struct{})}
}

// ResetIfNewDay drops every remembered slot when today differs from the
// last observed date, and reports whether a reset happened. Keys are
// date-scoped, so stale entries could never match anyway; the reset keeps
// the set from growing without bound.
func (d *DedupMemory) ResetIfNewDay(today time.Time) bool {
	date := models.FormatDate(today)

	d.mu.Lock()
	defer d.mu.Unlock()

	if date == d.lastDate {
		return false
	}
	reset := d.lastDate != ""
	d.seen = make(map[SlotKey]struct{})
	d.lastDate = date
	return reset
}

// Contains reports whether the slot has already been alerted or resolved.
func (d *DedupMemory) Contains(key SlotKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.seen[key]
	return ok
}

// Commit marks slots as consumed for the rest of the day.
func (d *DedupMemory) Commit(keys ...SlotKey) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, key := range keys {
		d.seen[key] = struct{}{}
	}
}
