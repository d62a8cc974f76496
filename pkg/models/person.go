package models

// Person is one family member with an ordered medication list.
// The list is owned by the record store and only ever replaced whole.
type Person struct {
	ID          string
	FirstName   string
	LastName    string
	Medications []Medication
}

// DisplayName returns the name shown on alerts and in menus.
func (p *Person) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
