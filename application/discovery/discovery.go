package discovery

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/reglet-ext/application/manifest"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/errors"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// Result is the outcome of a discovery run.
type Result struct {
	// ManifestErr is the whole-manifest problem that was absorbed, if any.
	ManifestErr  error                       `json:"-"`
	ManifestPath string                      `json:"manifestPath"`
	Extensions   []LoadedExtension           `json:"-"`
	// Skipped is grouped by stage: entries the manifest reader rejected come
	// first, then entries the type loader skipped. Each group keeps manifest
	// order.
	Skipped      []entities.SkippedExtension `json:"skipped"`
}

// Types returns the identities of the discovered extensions in order.
func (r *Result) Types() []entities.TypeIdentity {
	out := make([]entities.TypeIdentity, len(r.Extensions))
	for i, ext := range r.Extensions {
		out[i] = ext.Type
	}
	return out
}

// Discoverer runs extension discovery for a host root.
type Discoverer struct {
	reader *manifest.Reader
	types  *TypeLoader
	config config
}

// NewDiscoverer creates a Discoverer loading modules through loader and
// resolving types through lookup.
func NewDiscoverer(loader ports.ModuleLoader, lookup ports.SymbolLookup, opts ...Option) *Discoverer {
	cfg := newConfig(opts)
	return &Discoverer{
		reader: manifest.NewReader(manifest.WithFs(cfg.fs), manifest.WithLogger(cfg.logger)),
		types:  newTypeLoader(loader, lookup, cfg),
		config: cfg,
	}
}

// ManifestPath returns the manifest location for hostRoot.
func (d *Discoverer) ManifestPath(hostRoot string) string {
	return filepath.Join(hostRoot, BinDir, d.config.manifestFile)
}

// Discover reads <hostRoot>/bin/<manifest> and returns the startup
// extensions it declares that could be resolved and validated, deduplicated
// by type name in manifest order.
//
// It returns errors.ErrHostRootRequired when hostRoot is empty and the
// context error when ctx is cancelled; every other problem is logged and
// leaves the affected entry, or the whole manifest, out of the result.
func (d *Discoverer) Discover(ctx context.Context, hostRoot string) (*Result, error) {
	if strings.TrimSpace(hostRoot) == "" {
		return nil, errors.ErrHostRootRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchRoot := filepath.Join(hostRoot, BinDir)
	res := &Result{ManifestPath: d.ManifestPath(hostRoot)}

	read := d.reader.ReadAll(ctx, res.ManifestPath)
	res.ManifestErr = read.Err
	res.Skipped = append(res.Skipped, read.Rejected...)

	loaded, skipped, err := d.types.Load(ctx, read.References, searchRoot)
	if err != nil {
		return nil, err
	}
	res.Skipped = append(res.Skipped, skipped...)
	res.Extensions = Dedupe(loaded)

	d.config.logger.DebugContext(ctx, "Discovered startup extensions",
		"manifest", res.ManifestPath,
		"declared", len(read.References)+len(read.Rejected),
		"loaded", len(res.Extensions),
		"skipped", len(res.Skipped))
	return res, nil
}
