package matching

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"persona-match/internal/domain"
)

func newFourTraitEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(fourTraits, WithWorkers(4))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func candidate(name string, r domain.Ranking) Candidate {
	return Candidate{Ranking: r, Display: domain.DisplayFields{Name: name}}
}

var subjectRanking = domain.Ranking{"creative": 1, "intellectual": 2, "innovative": 3, "adventurous": 4}

func TestMaxDistance(t *testing.T) {
	cases := map[int]int{1: 0, 2: 2, 3: 4, 4: 8, 5: 12, 8: 32, 9: 40}
	for n, want := range cases {
		if got := MaxDistance(n); got != want {
			t.Fatalf("MaxDistance(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestComputeMatches_Scenarios(t *testing.T) {
	e := newFourTraitEngine(t)

	others := []Candidate{
		candidate("swapped", domain.Ranking{"creative": 2, "intellectual": 1, "innovative": 4, "adventurous": 3}),
		candidate("reversed", domain.Ranking{"creative": 4, "intellectual": 3, "innovative": 2, "adventurous": 1}),
		candidate("same", domain.Ranking{"creative": 1, "intellectual": 2, "innovative": 3, "adventurous": 4}),
	}

	got, err := e.ComputeMatches(subjectRanking, others)
	if err != nil {
		t.Fatalf("compute matches: %v", err)
	}
	want := []domain.MatchResult{
		{DisplayFields: domain.DisplayFields{Name: "same"}, Percentage: 100},
		{DisplayFields: domain.DisplayFields{Name: "swapped"}, Percentage: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestDistance_SelfAndReversed(t *testing.T) {
	e := newFourTraitEngine(t)

	d, err := e.Distance(subjectRanking, subjectRanking)
	if err != nil || d != 0 {
		t.Fatalf("expected self distance 0, got %d (%v)", d, err)
	}
	p, _ := e.Percentage(d)
	if p != 100 {
		t.Fatalf("expected 100%% for self match, got %d", p)
	}

	reversed := domain.Ranking{"creative": 4, "intellectual": 3, "innovative": 2, "adventurous": 1}
	d, err = e.Distance(subjectRanking, reversed)
	if err != nil || d != 8 {
		t.Fatalf("expected reversed distance 8, got %d (%v)", d, err)
	}
	p, _ = e.Percentage(d)
	if p != 0 {
		t.Fatalf("expected 0%% for reversed ranking, got %d", p)
	}
}

func TestComputeMatches_EmptyOthers(t *testing.T) {
	e := newFourTraitEngine(t)
	got, err := e.ComputeMatches(subjectRanking, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func identityRanking(traitSet []domain.Trait) domain.Ranking {
	r := make(domain.Ranking, len(traitSet))
	for i, trait := range traitSet {
		r[trait] = i + 1
	}
	return r
}

func rankingFrom(traitSet []domain.Trait, positions ...int) domain.Ranking {
	r := make(domain.Ranking, len(traitSet))
	for i, trait := range traitSet {
		r[trait] = positions[i]
	}
	return r
}

func numberedTraits(n int) []domain.Trait {
	out := make([]domain.Trait, n)
	for i := range out {
		out[i] = domain.Trait(fmt.Sprintf("t%d", i+1))
	}
	return out
}

func TestComputeMatches_ThresholdIsExclusive(t *testing.T) {
	t.Run("exactly 30 is excluded", func(t *testing.T) {
		traitSet := numberedTraits(9)
		e, err := NewEngine(traitSet)
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		other := rankingFrom(traitSet, 9, 6, 5, 4, 3, 2, 1, 8, 7)
		d, _ := e.Distance(identityRanking(traitSet), other)
		if p, _ := e.Percentage(d); p != 30 {
			t.Fatalf("fixture should score 30%%, got %d (distance %d)", p, d)
		}

		got, err := e.ComputeMatches(identityRanking(traitSet), []Candidate{candidate("thirty", other)})
		if err != nil {
			t.Fatalf("compute matches: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected 30%% match to be filtered, got %+v", got)
		}
	})

	t.Run("31 is included", func(t *testing.T) {
		traitSet := numberedTraits(8)
		e, err := NewEngine(traitSet)
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		other := rankingFrom(traitSet, 7, 6, 4, 3, 2, 5, 1, 8)

		got, err := e.ComputeMatches(identityRanking(traitSet), []Candidate{candidate("thirty-one", other)})
		if err != nil {
			t.Fatalf("compute matches: %v", err)
		}
		if len(got) != 1 || got[0].Percentage != 31 {
			t.Fatalf("expected a single 31%% match, got %+v", got)
		}
	})
}

func TestComputeMatches_StableForEqualPercentages(t *testing.T) {
	e := newFourTraitEngine(t)
	var others []Candidate
	names := []string{"first", "second", "third", "fourth"}
	rankings := []domain.Ranking{
		{"creative": 2, "intellectual": 1, "innovative": 3, "adventurous": 4}, // 75
		{"creative": 1, "intellectual": 2, "innovative": 4, "adventurous": 3}, // 75
		{"creative": 1, "intellectual": 2, "innovative": 3, "adventurous": 4}, // 100
		{"creative": 1, "intellectual": 3, "innovative": 2, "adventurous": 4}, // 75
	}
	for i := range names {
		others = append(others, candidate(names[i], rankings[i]))
	}

	got, err := e.ComputeMatches(subjectRanking, others)
	if err != nil {
		t.Fatalf("compute matches: %v", err)
	}
	var order []string
	for i, m := range got {
		order = append(order, m.Name)
		if i > 0 && got[i-1].Percentage < m.Percentage {
			t.Fatalf("results not sorted by percentage: %+v", got)
		}
	}
	if diff := cmp.Diff([]string{"third", "first", "second", "fourth"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeMatches_PassesDisplayFieldsThrough(t *testing.T) {
	e := newFourTraitEngine(t)
	display := domain.DisplayFields{Name: "Ana", Contact: "ana@example.com", Origin: "Rosario", Cohort: "2024"}
	got, err := e.ComputeMatches(subjectRanking, []Candidate{{Ranking: subjectRanking, Display: display}})
	if err != nil {
		t.Fatalf("compute matches: %v", err)
	}
	if len(got) != 1 || got[0].DisplayFields != display {
		t.Fatalf("expected display fields unchanged, got %+v", got)
	}
}

func TestComputeMatches_RejectsInconsistentCoverage(t *testing.T) {
	e := newFourTraitEngine(t)

	tests := []struct {
		name    string
		subject domain.Ranking
		other   domain.Ranking
		wantErr error
	}{
		{
			name:    "subject missing trait",
			subject: domain.Ranking{"creative": 1, "intellectual": 2, "innovative": 3},
			other:   subjectRanking,
			wantErr: ErrTraitCoverage,
		},
		{
			name:    "other has unknown trait",
			subject: subjectRanking,
			other:   domain.Ranking{"creative": 1, "intellectual": 2, "innovative": 3, "musical": 4},
			wantErr: ErrTraitCoverage,
		},
		{
			name:    "other has extra trait",
			subject: subjectRanking,
			other:   domain.Ranking{"creative": 1, "intellectual": 2, "innovative": 3, "adventurous": 4, "musical": 5},
			wantErr: ErrTraitCoverage,
		},
		{
			name:    "duplicate rank",
			subject: subjectRanking,
			other:   domain.Ranking{"creative": 1, "intellectual": 1, "innovative": 3, "adventurous": 4},
			wantErr: ErrInvalidRanking,
		},
		{
			name:    "rank out of range",
			subject: subjectRanking,
			other:   domain.Ranking{"creative": 1, "intellectual": 2, "innovative": 3, "adventurous": 7},
			wantErr: ErrInvalidRanking,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ComputeMatches(tt.subject, []Candidate{candidate("x", tt.other)})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPercentage_BoundsForAllPermutations(t *testing.T) {
	e := newFourTraitEngine(t)
	perms := permutations([]int{1, 2, 3, 4})
	for _, a := range perms {
		for _, b := range perms {
			ra := rankingFrom(fourTraits, a...)
			rb := rankingFrom(fourTraits, b...)
			d, err := e.Distance(ra, rb)
			if err != nil {
				t.Fatalf("distance: %v", err)
			}
			p, err := e.Percentage(d)
			if err != nil || p < 0 || p > 100 {
				t.Fatalf("percentage out of bounds for %v vs %v: %d (%v)", a, b, p, err)
			}
		}
	}
}

func TestPercentage_ReportsInvariantViolation(t *testing.T) {
	e := newFourTraitEngine(t)
	if _, err := e.Percentage(10); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant for distance beyond maximum, got %v", err)
	}
}

func TestNewEngine_RequiresTraits(t *testing.T) {
	if _, err := NewEngine(nil); !errors.Is(err, ErrNoTraits) {
		t.Fatalf("expected ErrNoTraits, got %v", err)
	}
}

func permutations(in []int) [][]int {
	if len(in) <= 1 {
		return [][]int{append([]int(nil), in...)}
	}
	var out [][]int
	for i := range in {
		rest := make([]int, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]int{in[i]}, p...))
		}
	}
	return out
}
