package parser

import (
	"path/filepath"
	"strings"

	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// ForPath picks a parser from the manifest file extension. Unknown
// extensions are read as JSON.
func ForPath(path string, shape ports.DocumentValidator) ports.ManifestParser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYamlManifestParser(shape)
	case ".hcl":
		return NewHCLManifestParser(filepath.Base(path))
	default:
		return NewJSONManifestParser(shape)
	}
}
