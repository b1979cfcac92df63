package domain

import "time"

// Trait es una dimension de personalidad declarada por el cuestionario.
type Trait string

// QuestionID identifica un item del cuestionario ("q1".."q10").
type QuestionID string

// AnswerOption es una de las opciones de una pregunta ("A".."D").
type AnswerOption string

// RawAnswers son las respuestas de un respondente. Puede ser parcial.
type RawAnswers map[QuestionID]AnswerOption

// Profile acumula el puntaje de cada rasgo.
type Profile map[Trait]int

// Ranking asigna a cada rasgo su posicion ordinal (1 = rasgo mas fuerte).
type Ranking map[Trait]int

// AnswerRecord son las respuestas persistidas de un respondente.
type AnswerRecord struct {
	UserID    string     `json:"user_id"`
	Answers   RawAnswers `json:"answers"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Candidate combina un respondente con sus respuestas para el matching.
type Candidate struct {
	Respondent Respondent
	Answers    RawAnswers
}
