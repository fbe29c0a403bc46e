package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// YamlManifestParser implements ManifestParser for YAML.
type YamlManifestParser struct {
	shape ports.DocumentValidator
}

// NewYamlManifestParser creates a YAML parser that checks document shape with v.
func NewYamlManifestParser(v ports.DocumentValidator) ports.ManifestParser {
	return &YamlManifestParser{shape: v}
}

// Parse unmarshals YAML bytes into manifest entries.
func (p *YamlManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, malformed(err)
	}

	// The shape validator works on JSON values.
	jsonData, err := json.Marshal(normalizeYAML(generic))
	if err != nil {
		return nil, malformed(fmt.Errorf("converting to JSON: %w", err))
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, malformed(err)
	}
	if err := checkShape(p.shape, doc); err != nil {
		return nil, err
	}

	var raw struct {
		Extensions []yaml.Node `yaml:"extensions"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, malformed(err)
	}

	manifest := &entities.Manifest{Entries: make([]entities.ManifestEntry, 0, len(raw.Extensions))}
	for i := range raw.Extensions {
		entry := entities.ManifestEntry{Index: i}
		entry.Err = raw.Extensions[i].Decode(&entry.Reference)
		manifest.Entries = append(manifest.Entries, entry)
	}
	return manifest, nil
}

// normalizeYAML converts map[any]any values produced for non-string keys
// into JSON-compatible maps.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}
