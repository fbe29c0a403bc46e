package ports

import "github.com/reglet-dev/reglet-ext/domain/entities"

// ManifestParser parses raw manifest bytes into entries.
type ManifestParser interface {
	// Parse decodes data into manifest entries in document order.
	// Whole-document failures are returned as *errors.ManifestError with kind
	// KindManifestMalformed or KindManifestShapeInvalid. Entries that cannot be
	// decoded are returned with ManifestEntry.Err set.
	Parse(data []byte) (*entities.Manifest, error)
}
