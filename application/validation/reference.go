package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// ReferenceValidator validates extension references using struct tags.
type ReferenceValidator struct {
	validate *validator.Validate
}

// NewReferenceValidator creates a new ReferenceValidator.
func NewReferenceValidator() ports.ReferenceValidator {
	// Reusing one validator caches struct metadata.
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &ReferenceValidator{validate: v}
}

// Validate checks ref after whitespace normalization.
func (v *ReferenceValidator) Validate(ref entities.ExtensionReference) (*entities.ValidationResult, error) {
	ref = ref.Normalized()
	err := v.validate.Struct(ref)
	if err == nil {
		return &entities.ValidationResult{Valid: true}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validating extension reference: %w", err)
	}

	result := &entities.ValidationResult{Valid: false}
	for _, fe := range fieldErrs {
		result.Errors = append(result.Errors, entities.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return result, nil
}
