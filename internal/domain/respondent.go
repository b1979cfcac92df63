package domain

import "time"

// Respondent es una persona que responde el cuestionario.
type Respondent struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Contact      string    `json:"contact,omitempty"`
	Origin       string    `json:"origin,omitempty"`
	Cohort       string    `json:"cohort,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Display devuelve los campos visibles en un match. Sin nombre se usa la identidad.
func (r Respondent) Display() DisplayFields {
	name := r.Name
	if name == "" {
		name = r.ID
	}
	return DisplayFields{
		Name:    name,
		Contact: r.Contact,
		Origin:  r.Origin,
		Cohort:  r.Cohort,
	}
}
