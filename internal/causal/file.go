package causal

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a causal table.
type File struct {
	Pairs []Entry `yaml:"pairs"`
}

// LoadFile reads a YAML causal table:
//
//	pairs:
//	  - a: health
//	    b: ethics
//	    explanation: Medical AI errors may violate ethical responsibility to patients.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read causal map: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML causal table. Unknown fields are rejected.
func Parse(data []byte) (*Map, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse causal map: %w", err)
	}
	return New(f.Pairs...)
}

// Marshal encodes m in the LoadFile format.
func Marshal(m *Map) ([]byte, error) {
	return yaml.Marshal(File{Pairs: m.Entries()})
}
