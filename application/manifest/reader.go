// Package manifest reads the extensions manifest into extension references.
// Reading never fails: every problem is logged and absorbed into
// "no extensions declared" (whole manifest) or a rejected entry (one entry).
package manifest

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/reglet-dev/reglet-ext/application/validation"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/errors"
	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/reglet-dev/reglet-ext/infrastructure/parser"
	"github.com/spf13/afero"
)

// readerConfig holds configuration for the Reader.
type readerConfig struct {
	fs        afero.Fs
	logger    *slog.Logger
	parser    ports.ManifestParser
	shape     ports.DocumentValidator
	validator ports.ReferenceValidator
}

func defaultReaderConfig() readerConfig {
	return readerConfig{
		fs:        afero.NewOsFs(),
		shape:     validation.NewShapeValidator(),
		validator: validation.NewReferenceValidator(),
	}
}

// ReaderOption configures the Reader.
type ReaderOption func(*readerConfig)

// WithFs sets the filesystem the manifest is read from.
func WithFs(fsys afero.Fs) ReaderOption {
	return func(c *readerConfig) {
		c.fs = fsys
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) ReaderOption {
	return func(c *readerConfig) {
		c.logger = l
	}
}

// WithParser forces a parser instead of choosing one by file extension.
func WithParser(p ports.ManifestParser) ReaderOption {
	return func(c *readerConfig) {
		c.parser = p
	}
}

// WithReferenceValidator sets the per-entry validator.
func WithReferenceValidator(v ports.ReferenceValidator) ReaderOption {
	return func(c *readerConfig) {
		c.validator = v
	}
}

// Reader reads extension manifests.
type Reader struct {
	config readerConfig
}

// NewReader creates a new Reader with defaults.
func NewReader(opts ...ReaderOption) *Reader {
	cfg := defaultReaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Reader{config: cfg}
}

// Result is the detailed outcome of reading a manifest.
type Result struct {
	// Err is the absorbed whole-manifest failure, if any (*errors.ManifestError).
	Err        error
	References []entities.ExtensionReference
	Rejected   []entities.SkippedExtension
}

// Read returns the references declared in the manifest at path, in order.
// A missing, unparsable or wrongly shaped manifest yields an empty slice.
func (r *Reader) Read(ctx context.Context, path string) []entities.ExtensionReference {
	return r.ReadAll(ctx, path).References
}

// ReadAll is Read with the rejected entries and the absorbed error.
func (r *Reader) ReadAll(ctx context.Context, path string) Result {
	log := r.config.logger

	data, err := r.readFile(path)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return Result{Err: &errors.ManifestError{Path: path, Kind: errors.KindManifestMissing, Err: err}}
		}
		merr := &errors.ManifestError{Path: path, Kind: errors.KindManifestMalformed, Err: err}
		log.ErrorContext(ctx, "Unable to read extensions manifest", "path", path, "error", err)
		return Result{Err: merr}
	}

	p := r.config.parser
	if p == nil {
		p = parser.ForPath(path, r.config.shape)
	}

	manifest, err := p.Parse(data)
	if err != nil {
		merr := asManifestError(err, path)
		if merr.Kind == errors.KindManifestShapeInvalid {
			log.ErrorContext(ctx, "Extensions manifest is missing the 'extensions' collection", "path", path, "error", merr.Err)
		} else {
			log.ErrorContext(ctx, "Unable to parse extensions manifest", "path", path, "error", merr.Err)
		}
		return Result{Err: merr}
	}

	res := Result{References: make([]entities.ExtensionReference, 0, len(manifest.Entries))}
	for _, entry := range manifest.Entries {
		ref, rerr := r.accept(entry)
		if rerr != nil {
			log.WarnContext(ctx, rerr.Error(), "path", path, "index", entry.Index)
			res.Rejected = append(res.Rejected, entities.SkippedExtension{
				Reference: entry.Reference,
				Detail:    errors.ToErrorDetail(rerr),
			})
			continue
		}
		res.References = append(res.References, ref)
	}
	return res
}

// readFile stats path before reading it. Some filesystems read a directory
// as empty content, which would surface as a parse error.
func (r *Reader) readFile(path string) ([]byte, error) {
	info, err := r.config.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.ErrManifestIsDirectory
	}
	return afero.ReadFile(r.config.fs, path)
}

// accept decodes and validates one entry.
func (r *Reader) accept(entry entities.ManifestEntry) (entities.ExtensionReference, error) {
	invalid := func(err error) error {
		return &errors.ExtensionError{
			Extension: strings.TrimSpace(entry.Reference.Name),
			TypeName:  entry.Reference.TypeName,
			Kind:      errors.KindInvalidReference,
			Err:       fmt.Errorf("entry %d: %w", entry.Index, err),
		}
	}

	if entry.Err != nil {
		return entities.ExtensionReference{}, invalid(entry.Err)
	}

	ref := entry.Reference.Normalized()
	res, err := r.config.validator.Validate(ref)
	if err != nil {
		return entities.ExtensionReference{}, invalid(err)
	}
	if !res.Valid {
		msgs := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			msgs = append(msgs, e.Field+" "+e.Message)
		}
		return entities.ExtensionReference{}, invalid(fmt.Errorf("%s", strings.Join(msgs, "; ")))
	}
	return ref, nil
}

func asManifestError(err error, path string) *errors.ManifestError {
	var merr *errors.ManifestError
	if !stdErrors.As(err, &merr) {
		merr = &errors.ManifestError{Kind: errors.KindManifestMalformed, Err: err}
	}
	out := *merr
	out.Path = path
	return &out
}
