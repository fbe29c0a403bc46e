package entities

// SkippedExtension records a reference that discovery did not accept.
type SkippedExtension struct {
	Detail    *ErrorDetail       `json:"detail"`
	Reference ExtensionReference `json:"reference"`
}
