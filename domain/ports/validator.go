package ports

import "github.com/reglet-dev/reglet-ext/domain/entities"

// ReferenceValidator validates a single extension reference.
type ReferenceValidator interface {
	Validate(ref entities.ExtensionReference) (*entities.ValidationResult, error)
}

// DocumentValidator checks the shape of a generic manifest document.
type DocumentValidator interface {
	Validate(doc any) (*entities.ValidationResult, error)
}
