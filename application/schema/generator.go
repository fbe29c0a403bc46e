// Package schema generates JSON schemas for extension manifests.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/reglet-ext/domain/entities"
)

// ManifestSchemaID is the $id of the generated manifest schema.
const ManifestSchemaID = "https://reglet.dev/schemas/extensions.schema.json"

type generatorConfig struct {
	id             string
	title          string
	openProperties bool
}

// Option configures GenerateSchema.
type Option func(*generatorConfig)

// WithID sets the schema $id.
func WithID(id string) Option {
	return func(c *generatorConfig) {
		c.id = id
	}
}

// WithTitle sets the schema title.
func WithTitle(title string) Option {
	return func(c *generatorConfig) {
		c.title = title
	}
}

// WithAdditionalProperties allows properties the struct does not declare.
func WithAdditionalProperties() Option {
	return func(c *generatorConfig) {
		c.openProperties = true
	}
}

// GenerateSchema creates a JSON schema (Draft 2020-12) from a Go struct.
// Nested structs are expanded inline rather than placed under $defs.
func GenerateSchema(v any, opts ...Option) ([]byte, error) {
	var cfg generatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: cfg.openProperties,
	}
	s := reflector.Reflect(v)
	if cfg.id != "" {
		s.ID = jsonschema.ID(cfg.id)
	}
	if cfg.title != "" {
		s.Title = cfg.title
	}

	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}

// ManifestSchema returns the schema of the extensions manifest document.
// Unknown properties are allowed because readers ignore them.
func ManifestSchema() ([]byte, error) {
	return GenerateSchema(&entities.ExtensionManifest{},
		WithID(ManifestSchemaID),
		WithTitle("Startup extensions manifest"),
		WithAdditionalProperties(),
	)
}
