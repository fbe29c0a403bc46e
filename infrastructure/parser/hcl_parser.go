package parser

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// hclManifest is the HCL form of the manifest:
//
//	extension "metrics" {
//	  type_name = "Metrics.Startup, MetricsModule"
//	  hint_path = "metrics/metrics.wasm"
//	}
type hclManifest struct {
	Extensions []hclExtension `hcl:"extension,block"`
}

type hclExtension struct {
	Name        string `hcl:"name,label"`
	TypeName    string `hcl:"type_name,optional"`
	HintPath    string `hcl:"hint_path,optional"`
	HostVersion string `hcl:"host_version,optional"`
}

// HCLManifestParser implements ManifestParser for HCL. A document without
// extension blocks declares no extensions.
type HCLManifestParser struct {
	filename string
}

// NewHCLManifestParser creates an HCL parser. filename is used in diagnostics.
func NewHCLManifestParser(filename string) ports.ManifestParser {
	return &HCLManifestParser{filename: filename}
}

// Parse decodes extension blocks in document order.
func (p *HCLManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, p.filename)
	if diags.HasErrors() {
		return nil, malformed(diags)
	}

	var m hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, malformed(diags)
	}

	manifest := &entities.Manifest{Entries: make([]entities.ManifestEntry, 0, len(m.Extensions))}
	for i, ext := range m.Extensions {
		manifest.Entries = append(manifest.Entries, entities.ManifestEntry{
			Index: i,
			Reference: entities.ExtensionReference{
				Name:        ext.Name,
				TypeName:    ext.TypeName,
				HintPath:    ext.HintPath,
				HostVersion: ext.HostVersion,
			},
		})
	}
	return manifest, nil
}
