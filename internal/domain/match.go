package domain

// DisplayFields son opacos para el motor y se copian sin cambios al resultado.
type DisplayFields struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Origin  string `json:"origin,omitempty"`
	Cohort  string `json:"cohort,omitempty"`
}

type MatchResult struct {
	DisplayFields
	Percentage int `json:"percentage"`
}

// MatchReport es la respuesta completa para un sujeto.
type MatchReport struct {
	Identity string        `json:"identity"`
	Matches  []MatchResult `json:"matches"`
}

// ProfileReport expone el perfil y el ranking derivados de las respuestas.
type ProfileReport struct {
	Identity string  `json:"identity"`
	Profile  Profile `json:"profile"`
	Ranking  Ranking `json:"ranking"`
}
