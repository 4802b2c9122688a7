package observables

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InputDataError reports missing or malformed external data. Unlike every
// other error in the engine, it is fatal to the run: statistics over
// undefined inputs are worse than no statistics.
type InputDataError struct {
	Field  string
	Reason string
}

func (e *InputDataError) Error() string {
	return fmt.Sprintf("input data error: %s: %s", e.Field, e.Reason)
}

// Load reads and validates an observables table from a YAML file.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read observables table: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML observables table.
func Parse(raw []byte) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, &InputDataError{Field: "observables", Reason: err.Error()}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
