package store

import (
	"fmt"
	"time"

	"github.com/medtime/medication-time/pkg/models"
)

// JournalEntry is one dated free-text note for a person.
type JournalEntry struct {
	Date time.Time
	Text string
}

// AddJournalEntry stores a note under the entry's calendar date.
func (s *Store) AddJournalEntry(personID string, date time.Time, text string) error {
	_, err := s.db.Exec(`INSERT INTO user_journals (user_id, date, journal_text) VALUES (?, ?, ?)`,
		personID, models.FormatDate(date), text)
	if err != nil {
		return fmt.Errorf("failed to add journal entry: %w", err)
	}
	return nil
}

// ListJournalEntries returns a person's notes between from and to inclusive,
// oldest first.
func (s *Store) ListJournalEntries(personID string, from, to time.Time) ([]JournalEntry, error) {
	rows, err := s.db.Query(`
		SELECT date, journal_text FROM user_journals
		WHERE user_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`,
		personID, models.FormatDate(from), models.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var date string
		if err := rows.Scan(&date, &e.Text); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if d, perr := models.ParseDate(date); perr == nil {
			e.Date = d
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
