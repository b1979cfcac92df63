package matching

import (
	"sort"

	"persona-match/internal/domain"
)

// DeriveRanking ordena los rasgos por puntaje descendente y asigna posiciones 1..N.
// Los empates conservan el orden de declaracion de order.
func DeriveRanking(order []domain.Trait, profile domain.Profile) domain.Ranking {
	sorted := append([]domain.Trait(nil), order...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return profile[sorted[i]] > profile[sorted[j]]
	})

	ranking := make(domain.Ranking, len(sorted))
	for i, trait := range sorted {
		ranking[trait] = i + 1
	}
	return ranking
}
