package traits

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"persona-match/internal/domain"
)

//go:embed default.yaml
var defaultTable []byte

type tableFile struct {
	Traits    []domain.Trait `yaml:"traits"`
	Questions []Question     `yaml:"questions"`
}

// Load lee una tabla en YAML y la valida.
func Load(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}
	return New(f.Traits, f.Questions)
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Default devuelve el cuestionario incluido en el binario.
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultTable))
}
