package matching

import (
	"persona-match/internal/domain"
	"persona-match/internal/traits"
)

// ComputeProfile suma los pesos de cada respuesta. Preguntas sin responder u
// opciones desconocidas aportan cero.
func ComputeProfile(table *traits.Table, answers domain.RawAnswers) domain.Profile {
	profile := make(domain.Profile)
	for _, trait := range table.Traits() {
		profile[trait] = 0
	}
	for _, q := range table.Questions() {
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		for trait, w := range table.Weights(q.ID, answer) {
			profile[trait] += w
		}
	}
	return profile
}

// Rank es ComputeProfile seguido de DeriveRanking con el orden de la tabla.
func Rank(table *traits.Table, answers domain.RawAnswers) domain.Ranking {
	return DeriveRanking(table.Traits(), ComputeProfile(table, answers))
}
