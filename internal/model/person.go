package model

import "strings"

// Person is one extracted decision-maker record. Name is the only required
// field; everything else is best-effort contact detail pulled from the page.
//
// JSON tags use snake_case because the same shape is the output contract of
// the extraction model: responses unmarshal directly into this struct.
type Person struct {
	// Name is the person's full name as it appeared on the page.
	Name string `json:"name"`

	// Title is the person's role (e.g. "Owner", "Managing Director").
	Title string `json:"title,omitempty"`

	// Email is a contact email attributed to this person on the page.
	Email string `json:"email,omitempty"`

	// Phone is a contact phone number attributed to this person.
	Phone string `json:"phone,omitempty"`

	// LinkedIn is a LinkedIn profile URL attributed to this person.
	LinkedIn string `json:"linkedin,omitempty"`
}

// Complete returns the number of non-empty optional fields. Reports use it
// to order people so the most actionable records print first; deduplication
// does not consult it (first-seen-wins).
func (p Person) Complete() int {
	n := 0
	for _, f := range []string{p.Title, p.Email, p.Phone, p.LinkedIn} {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

// IsZero returns true when the record carries no name.
func (p Person) IsZero() bool {
	return strings.TrimSpace(p.Name) == ""
}
