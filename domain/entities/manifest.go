package entities

// ExtensionManifest is the document shape of the extensions manifest.
// It is used for schema generation; readers decode entries one at a time.
type ExtensionManifest struct {
	Extensions []ExtensionReference `json:"extensions" yaml:"extensions" jsonschema:"required,description=Startup extensions in load order"`
}

// ManifestEntry is one decoded element of the extensions collection.
// Err is set when the element could not be decoded into a reference.
type ManifestEntry struct {
	Reference ExtensionReference
	Err       error
	Index     int
}

// Manifest is a parsed manifest: entries in document order.
type Manifest struct {
	Entries []ManifestEntry
}
