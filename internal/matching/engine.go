package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"persona-match/internal/domain"
)

// MinPercentage es el umbral exclusivo: solo se devuelven matches con porcentaje mayor.
const MinPercentage = 30

var (
	ErrTraitCoverage  = errors.New("ranking does not cover the trait set")
	ErrInvalidRanking = errors.New("ranking is not a permutation of 1..N")
	ErrInvariant      = errors.New("match percentage out of range")
	ErrNoTraits       = errors.New("engine requires at least one trait")
)

// Candidate es otro respondente ya rankeado, con sus campos visibles.
type Candidate struct {
	Ranking domain.Ranking
	Display domain.DisplayFields
}

// Engine compara rankings sobre un conjunto fijo de rasgos. No guarda estado
// entre llamadas y puede usarse desde varias goroutines.
type Engine struct {
	traits      []domain.Trait
	maxDistance int
	workers     int
}

type Option func(*Engine)

// WithWorkers limita las goroutines usadas para calcular distancias.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

func NewEngine(traitSet []domain.Trait, opts ...Option) (*Engine, error) {
	if len(traitSet) == 0 {
		return nil, ErrNoTraits
	}
	e := &Engine{
		traits:      append([]domain.Trait(nil), traitSet...),
		maxDistance: MaxDistance(len(traitSet)),
		workers:     1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MaxDistance es la distancia maxima entre dos permutaciones de n rasgos
// (ranking invertido): floor(n^2/2).
func MaxDistance(n int) int {
	return n * n / 2
}

// Traits devuelve el conjunto de rasgos del motor en orden de declaracion.
func (e *Engine) Traits() []domain.Trait {
	return append([]domain.Trait(nil), e.traits...)
}

// Validate exige que el ranking cubra exactamente los rasgos del motor con posiciones 1..N sin repetir.
func (e *Engine) Validate(r domain.Ranking) error {
	if len(r) != len(e.traits) {
		return fmt.Errorf("%w: got %d traits, want %d", ErrTraitCoverage, len(r), len(e.traits))
	}
	seen := make([]bool, len(e.traits)+1)
	for _, trait := range e.traits {
		pos, ok := r[trait]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrTraitCoverage, trait)
		}
		if pos < 1 || pos > len(e.traits) || seen[pos] {
			return fmt.Errorf("%w: %q=%d", ErrInvalidRanking, trait, pos)
		}
		seen[pos] = true
	}
	return nil
}

// Distance es la suma de diferencias absolutas de posicion. Ambos rankings deben ser validos.
func (e *Engine) Distance(a, b domain.Ranking) (int, error) {
	if err := e.Validate(a); err != nil {
		return 0, err
	}
	if err := e.Validate(b); err != nil {
		return 0, err
	}
	return e.distance(a, b), nil
}

func (e *Engine) distance(a, b domain.Ranking) int {
	d := 0
	for _, trait := range e.traits {
		diff := a[trait] - b[trait]
		if diff < 0 {
			diff = -diff
		}
		d += diff
	}
	return d
}

// Percentage convierte una distancia en un porcentaje 0..100.
func (e *Engine) Percentage(distance int) (int, error) {
	if e.maxDistance == 0 {
		// Con un solo rasgo todos los rankings son identicos.
		return 100, nil
	}
	p := int(math.Round(float64(100*(e.maxDistance-distance)) / float64(e.maxDistance)))
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: distance %d gives %d%%", ErrInvariant, distance, p)
	}
	return p, nil
}

// ComputeMatches compara subject contra cada candidato, ordena por porcentaje
// descendente (estable respecto del orden de entrada) y descarta los que no superan MinPercentage.
func (e *Engine) ComputeMatches(subject domain.Ranking, others []Candidate) ([]domain.MatchResult, error) {
	if err := e.Validate(subject); err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	if len(others) == 0 {
		return []domain.MatchResult{}, nil
	}

	scored := make([]domain.MatchResult, len(others))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range others {
		i := i
		g.Go(func() error {
			other := others[i]
			if err := e.Validate(other.Ranking); err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			p, err := e.Percentage(e.distance(subject, other.Ranking))
			if err != nil {
				return err
			}
			scored[i] = domain.MatchResult{DisplayFields: other.Display, Percentage: p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Percentage > scored[j].Percentage
	})

	matches := make([]domain.MatchResult, 0, len(scored))
	for _, m := range scored {
		if m.Percentage > MinPercentage {
			matches = append(matches, m)
		}
	}
	return matches, nil
}
