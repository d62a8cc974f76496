package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/medtime/medication-time/pkg/models"
)

// ListPersons returns a full snapshot of every person and their medication
// list. A row with an unreadable medication blob is returned with an empty
// list rather than failing the whole read.
func (s *Store) ListPersons() ([]models.Person, error) {
	rows, err := s.db.Query(`SELECT user_id, first_name, last_name, medication_data FROM users ORDER BY first_name, last_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		var blob string
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &p.Medications); err != nil {
			log.Printf("Unreadable medication data for %s: %v", p.DisplayName(), err)
			p.Medications = nil
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// GetMedications returns one person's medication list.
func (s *Store) GetMedications(personID string) ([]models.Medication, error) {
	var blob string
	err := s.db.QueryRow(`SELECT medication_data FROM users WHERE user_id = ?`, personID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person %s not found", personID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}

	var meds []models.Medication
	if err := json.Unmarshal([]byte(blob), &meds); err != nil {
		return nil, fmt.Errorf("failed to decode medications: %w", err)
	}
	return meds, nil
}

// SetMedications replaces one person's medication list whole.
func (s *Store) SetMedications(personID string, meds []models.Medication) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.setMedicationsLocked(personID, meds)
}

// UpdateMedications runs mutate against the current list and writes the
// result back as one indivisible unit.
func (s *Store) UpdateMedications(personID string, mutate func([]models.Medication) []models.Medication) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	meds, err := s.GetMedications(personID)
	if err != nil {
		return err
	}
	return s.setMedicationsLocked(personID, mutate(meds))
}

func (s *Store) setMedicationsLocked(personID string, meds []models.Medication) error {
	if meds == nil {
		meds = []models.Medication{}
	}
	blob, err := json.Marshal(meds)
	if err != nil {
		return fmt.Errorf("failed to encode medications: %w", err)
	}

	res, err := s.db.Exec(`UPDATE users SET medication_data = ? WHERE user_id = ?`, string(blob), personID)
	if err != nil {
		return fmt.Errorf("failed to save medications: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("person %s not found", personID)
	}
	return nil
}

// AddPerson creates a new person with an empty medication list.
func (s *Store) AddPerson(firstName, lastName string) (models.Person, error) {
	p := models.Person{ID: uuid.New().String(), FirstName: firstName, LastName: lastName}

	_, err := s.db.Exec(`INSERT INTO users (user_id, first_name, last_name, medication_data) VALUES (?, ?, ?, '[]')`,
		p.ID, p.FirstName, p.LastName)
	if err != nil {
		return models.Person{}, fmt.Errorf("failed to add person: %w", err)
	}
	return p, nil
}

// DeletePerson removes a person along with their journals and dose history.
func (s *Store) DeletePerson(personID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM user_journals WHERE user_id = ?`,
		`DELETE FROM dose_log WHERE user_id = ?`,
		`DELETE FROM users WHERE user_id = ?`,
	} {
		if _, err := tx.Exec(q, personID); err != nil {
			return fmt.Errorf("failed to delete person: %w", err)
		}
	}
	return tx.Commit()
}
