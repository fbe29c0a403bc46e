package parser

import (
	"bytes"
	"encoding/json"

	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/jsonc"
)

// JSONManifestParser implements ManifestParser for JSON. Comments and
// trailing commas are accepted.
type JSONManifestParser struct {
	shape ports.DocumentValidator
}

// NewJSONManifestParser creates a JSON parser that checks document shape with v.
func NewJSONManifestParser(v ports.DocumentValidator) ports.ManifestParser {
	return &JSONManifestParser{shape: v}
}

// Parse decodes the document, checks its shape, then decodes each entry on its own.
func (p *JSONManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	stripped := jsonc.ToJSON(data)

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(stripped))
	if err != nil {
		return nil, malformed(err)
	}
	if err := checkShape(p.shape, doc); err != nil {
		return nil, err
	}

	var raw struct {
		Extensions []json.RawMessage `json:"extensions"`
	}
	if err := json.Unmarshal(stripped, &raw); err != nil {
		return nil, malformed(err)
	}

	manifest := &entities.Manifest{Entries: make([]entities.ManifestEntry, 0, len(raw.Extensions))}
	for i, item := range raw.Extensions {
		entry := entities.ManifestEntry{Index: i}
		entry.Err = json.Unmarshal(item, &entry.Reference)
		manifest.Entries = append(manifest.Entries, entry)
	}
	return manifest, nil
}
