package store

import (
	"fmt"
	"time"
)

// DoseRecord is one resolved alert entry: a dose either taken or skipped.
type DoseRecord struct {
	PersonID   string
	Medication string
	SlotTime   string // HH:MM
	Action     string // taken | skipped
	LoggedAt   time.Time
}

// LogDose appends one resolution outcome to the dose history. Satisfies the
// scheduler's DoseLogger.
func (s *Store) LogDose(personID, medication, slotTime, action string, at time.Time) error {
	_, err := s.db.Exec(`INSERT INTO dose_log (user_id, medication, slot_time, action, logged_at) VALUES (?, ?, ?, ?, ?)`,
		personID, medication, slotTime, action, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to log dose: %w", err)
	}
	return nil
}

// ListDoseLog returns a person's dose history, newest first.
func (s *Store) ListDoseLog(personID string) ([]DoseRecord, error) {
	rows, err := s.db.Query(`
		SELECT user_id, medication, slot_time, action, logged_at FROM dose_log
		WHERE user_id = ?
		ORDER BY logged_at DESC`, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dose log: %w", err)
	}
	defer rows.Close()

	var records []DoseRecord
	for rows.Next() {
		var r DoseRecord
		if err := rows.Scan(&r.PersonID, &r.Medication, &r.SlotTime, &r.Action, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dose record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
