package entities

// ValidationResult represents the outcome of validating a manifest document
// or a single reference.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a specific validation error.
type ValidationError struct {
	// Field is the instance location (e.g. "/extensions", "typeName").
	Field   string
	Message string
}
