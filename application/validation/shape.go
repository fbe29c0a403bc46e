package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// manifestShapeSchema only checks the top-level collection. Entries are
// checked one at a time so a bad entry never rejects its siblings.
const manifestShapeSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["extensions"],
  "properties": {
    "extensions": {"type": "array"}
  }
}`

const shapeSchemaURL = "manifest-shape.schema.json"

var (
	compiledShape *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
	printer       = message.NewPrinter(language.English)
)

func shapeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(manifestShapeSchema))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(shapeSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledShape, compileErr = c.Compile(shapeSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledShape, compileErr
}

// ShapeValidator checks that a manifest document carries an "extensions" array.
type ShapeValidator struct{}

// NewShapeValidator creates a new ShapeValidator.
func NewShapeValidator() ports.DocumentValidator {
	return &ShapeValidator{}
}

// Validate checks doc, a value produced by jsonschema.UnmarshalJSON.
// The error return is for schema compilation failures; shape problems are
// reported in the result.
func (v *ShapeValidator) Validate(doc any) (*entities.ValidationResult, error) {
	sch, err := shapeSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	err = sch.Validate(doc)
	if err == nil {
		return &entities.ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	result := &entities.ValidationResult{Valid: false}
	collectIssues(ve, &result.Errors)
	if len(result.Errors) == 0 {
		result.Errors = append(result.Errors, entities.ValidationError{Message: ve.Error()})
	}
	return result, nil
}

// ValidateJSON is a convenience wrapper for raw JSON bytes.
func (v *ShapeValidator) ValidateJSON(data []byte) (*entities.ValidationResult, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return v.Validate(doc)
}

func collectIssues(ve *jsonschema.ValidationError, out *[]entities.ValidationError) {
	if len(ve.Causes) == 0 {
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		*out = append(*out, entities.ValidationError{Field: path, Message: msg})
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(cause, out)
	}
}
