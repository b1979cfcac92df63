package traits

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"persona-match/internal/domain"
)

var (
	ErrEmptyTable      = errors.New("questionnaire has no traits or questions")
	ErrUnknownTrait    = errors.New("unknown trait")
	ErrDuplicate       = errors.New("duplicate identifier")
	ErrNegativeWeight  = errors.New("negative weight")
	ErrUnknownAnswer   = errors.New("unknown question or option")
	ErrAmbiguousAnswer = errors.New("question answered more than once")
)

// Option es una respuesta posible con su aporte a cada rasgo.
type Option struct {
	ID      domain.AnswerOption  `yaml:"id" json:"id"`
	Label   string               `yaml:"label" json:"label"`
	Weights map[domain.Trait]int `yaml:"weights" json:"-"`
}

type Question struct {
	ID      domain.QuestionID `yaml:"id" json:"id"`
	Text    string            `yaml:"text" json:"text"`
	Options []Option          `yaml:"options" json:"options"`
}

// Table es la tabla estatica pregunta -> opcion -> pesos por rasgo.
// Se construye una vez con New y no se modifica despues.
type Table struct {
	traits    []domain.Trait
	questions []Question
	weights   map[domain.QuestionID]map[domain.AnswerOption]map[domain.Trait]int

	// Ids declarados indexados por su forma plegada (trim + minusculas).
	questionKeys map[string]domain.QuestionID
	optionKeys   map[domain.QuestionID]map[string]domain.AnswerOption
}

func foldKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// New valida la definicion contra el conjunto de rasgos declarado y construye los indices.
func New(traitSet []domain.Trait, questions []Question) (*Table, error) {
	if len(traitSet) == 0 || len(questions) == 0 {
		return nil, ErrEmptyTable
	}

	names := make([]domain.Trait, 0, len(traitSet))
	declared := make(map[domain.Trait]struct{}, len(traitSet))
	for _, t := range traitSet {
		name := domain.Trait(strings.TrimSpace(string(t)))
		if name == "" {
			return nil, fmt.Errorf("%w: empty trait name", ErrUnknownTrait)
		}
		if _, ok := declared[name]; ok {
			return nil, fmt.Errorf("%w: trait %q", ErrDuplicate, name)
		}
		declared[name] = struct{}{}
		names = append(names, name)
	}

	t := &Table{
		traits:       names,
		questions:    make([]Question, 0, len(questions)),
		weights:      make(map[domain.QuestionID]map[domain.AnswerOption]map[domain.Trait]int, len(questions)),
		questionKeys: make(map[string]domain.QuestionID, len(questions)),
		optionKeys:   make(map[domain.QuestionID]map[string]domain.AnswerOption, len(questions)),
	}

	for _, q := range questions {
		q.ID = domain.QuestionID(strings.TrimSpace(string(q.ID)))
		if q.ID == "" {
			return nil, fmt.Errorf("%w: empty question id", ErrUnknownAnswer)
		}
		qKey := foldKey(string(q.ID))
		if _, ok := t.questionKeys[qKey]; ok {
			return nil, fmt.Errorf("%w: question %q", ErrDuplicate, q.ID)
		}
		t.questionKeys[qKey] = q.ID
		optKeys := make(map[string]domain.AnswerOption, len(q.Options))
		byOption := make(map[domain.AnswerOption]map[domain.Trait]int, len(q.Options))
		options := make([]Option, 0, len(q.Options))
		for _, opt := range q.Options {
			opt.ID = domain.AnswerOption(strings.TrimSpace(string(opt.ID)))
			if opt.ID == "" {
				return nil, fmt.Errorf("%w: empty option id in question %q", ErrUnknownAnswer, q.ID)
			}
			oKey := foldKey(string(opt.ID))
			if _, ok := optKeys[oKey]; ok {
				return nil, fmt.Errorf("%w: option %q in question %q", ErrDuplicate, opt.ID, q.ID)
			}
			optKeys[oKey] = opt.ID
			w := make(map[domain.Trait]int, len(opt.Weights))
			for trait, v := range opt.Weights {
				trait = domain.Trait(strings.TrimSpace(string(trait)))
				if _, ok := declared[trait]; !ok {
					return nil, fmt.Errorf("%w: %q in %s/%s", ErrUnknownTrait, trait, q.ID, opt.ID)
				}
				if v < 0 {
					return nil, fmt.Errorf("%w: %s/%s/%s=%d", ErrNegativeWeight, q.ID, opt.ID, trait, v)
				}
				if _, ok := w[trait]; ok {
					return nil, fmt.Errorf("%w: weight %q in %s/%s", ErrDuplicate, trait, q.ID, opt.ID)
				}
				w[trait] = v
			}
			byOption[opt.ID] = w
			options = append(options, Option{ID: opt.ID, Label: opt.Label, Weights: w})
		}
		t.weights[q.ID] = byOption
		t.optionKeys[q.ID] = optKeys
		t.questions = append(t.questions, Question{ID: q.ID, Text: q.Text, Options: options})
	}

	return t, nil
}

// Traits devuelve los rasgos en orden de declaracion.
func (t *Table) Traits() []domain.Trait {
	return append([]domain.Trait(nil), t.traits...)
}

func (t *Table) Questions() []Question {
	return append([]Question(nil), t.questions...)
}

// Weights nunca falla: un par desconocido aporta cero a todos los rasgos.
func (t *Table) Weights(q domain.QuestionID, a domain.AnswerOption) map[domain.Trait]int {
	out := make(map[domain.Trait]int, len(t.traits))
	for _, trait := range t.traits {
		out[trait] = 0
	}
	for trait, v := range t.weights[q][a] {
		out[trait] = v
	}
	return out
}

// ValidateAnswers reporta preguntas u opciones que la tabla no conoce.
// El calculo del perfil las tolera; esto solo se usa al recibir respuestas nuevas.
func (t *Table) ValidateAnswers(answers domain.RawAnswers) error {
	var bad []string
	for q, a := range answers {
		options, ok := t.weights[q]
		if !ok {
			bad = append(bad, string(q))
			continue
		}
		if _, ok := options[a]; !ok {
			bad = append(bad, fmt.Sprintf("%s=%s", q, a))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	sort.Strings(bad)
	return fmt.Errorf("%w: %s", ErrUnknownAnswer, strings.Join(bad, ", "))
}

// Resolve traduce ids enviados por un cliente a los ids declarados, ignorando
// espacios y mayusculas. Falla si un id no existe o si dos claves nombran la
// misma pregunta.
func (t *Table) Resolve(answers domain.RawAnswers) (domain.RawAnswers, error) {
	resolved := make(domain.RawAnswers, len(answers))
	var unknown, repeated []string
	for q, a := range answers {
		qID, ok := t.questionKeys[foldKey(string(q))]
		if !ok {
			unknown = append(unknown, string(q))
			continue
		}
		aID, ok := t.optionKeys[qID][foldKey(string(a))]
		if !ok {
			unknown = append(unknown, fmt.Sprintf("%s=%s", q, a))
			continue
		}
		if _, dup := resolved[qID]; dup {
			repeated = append(repeated, string(qID))
			continue
		}
		resolved[qID] = aID
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnswer, strings.Join(unknown, ", "))
	}
	if len(repeated) > 0 {
		sort.Strings(repeated)
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousAnswer, strings.Join(repeated, ", "))
	}
	return resolved, nil
}
