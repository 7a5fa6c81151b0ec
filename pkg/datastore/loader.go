package datastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/webappsteps/stepsub/pkg/substitute"
)

// ErrInvalidDataFile is returned when a data file is not a flat mapping.
var ErrInvalidDataFile = errors.New("invalid data file")

// LoadFile seeds the scenario scope from a flat YAML or JSON mapping.
// The format is detected from the extension (.yaml, .yml for YAML, otherwise
// JSON). Scalars keep their literal text; null becomes the empty string.
func (s *Store) LoadFile(path string) error {
	vars, err := ReadFile(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range vars {
		s.scopes[Scenario][k] = v
	}
	return nil
}

// ReadFile parses a flat YAML or JSON mapping into a variable layer.
func ReadFile(path string) (substitute.Vars, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" && !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s: invalid JSON syntax", ErrInvalidDataFile, path)
	}

	vars, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vars, nil
}

// Parse decodes a flat mapping. JSON input is accepted since it is valid
// YAML. An empty document yields an empty layer.
func Parse(data []byte) (substitute.Vars, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataFile, err)
	}

	vars := substitute.Vars{}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return vars, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidDataFile)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, fmt.Errorf("%w: keys must be non-empty scalars (line %d)", ErrInvalidDataFile, key.Line)
		}
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s (line %d)", ErrNestedValue, key.Value, value.Line)
		}
		if value.ShortTag() == "!!null" {
			vars[key.Value] = ""
			continue
		}
		vars[key.Value] = value.Value
	}
	return vars, nil
}
