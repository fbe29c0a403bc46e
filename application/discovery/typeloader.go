package discovery

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/errors"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// LoadedExtension is a validated startup type and the module it came from.
// It is only meaningful while the owning loader scope is open.
type LoadedExtension struct {
	Module    ports.ModuleHandle
	Symbol    ports.Symbol
	Type      entities.TypeIdentity
	Reference entities.ExtensionReference
}

// TypeLoader turns extension references into validated startup types.
type TypeLoader struct {
	resolver *Resolver
	lookup   ports.SymbolLookup
	config   config
}

// NewTypeLoader creates a TypeLoader resolving modules through loader and
// symbols through lookup.
func NewTypeLoader(loader ports.ModuleLoader, lookup ports.SymbolLookup, opts ...Option) *TypeLoader {
	return newTypeLoader(loader, lookup, newConfig(opts))
}

func newTypeLoader(loader ports.ModuleLoader, lookup ports.SymbolLookup, cfg config) *TypeLoader {
	return &TypeLoader{
		resolver: newResolver(loader, cfg),
		lookup:   lookup,
		config:   cfg,
	}
}

// Load processes refs in order. Unresolvable or invalid references are
// logged, reported in the skipped list and otherwise ignored. The only error
// is context cancellation, in which case partial results are discarded.
func (l *TypeLoader) Load(ctx context.Context, refs []entities.ExtensionReference, searchRoot string) ([]LoadedExtension, []entities.SkippedExtension, error) {
	var (
		loaded  []LoadedExtension
		skipped []entities.SkippedExtension
	)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		ext, err := l.loadOne(ctx, ref, searchRoot)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			// The resolver already reported the collision.
			if errors.KindOf(err) != errors.KindBuiltinCollision {
				l.config.logger.WarnContext(ctx, err.Error(), "extension", ref.DisplayName(), "type", ref.TypeName)
			}
			skipped = append(skipped, entities.SkippedExtension{Reference: ref, Detail: errors.ToErrorDetail(err)})
			continue
		}
		loaded = append(loaded, ext)
	}
	return loaded, skipped, nil
}

// loadOne resolves a single reference. Panics from collaborators are
// contained to the entry.
func (l *TypeLoader) loadOne(ctx context.Context, ref entities.ExtensionReference, searchRoot string) (ext LoadedExtension, err error) {
	tn := entities.ParseTypeName(ref.TypeName)
	fail := func(kind errors.Kind, module string, cause error) error {
		return &errors.ExtensionError{
			Extension: ref.DisplayName(),
			TypeName:  ref.TypeName,
			Module:    module,
			Kind:      kind,
			Err:       cause,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fail(errors.KindInternal, tn.Module, fmt.Errorf("panic: %v", r))
		}
	}()

	module := tn.Module
	if module == "" && ref.HintPath != "" {
		base := filepath.Base(ref.HintPath)
		module = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if tn.Type == "" || module == "" {
		return LoadedExtension{}, fail(errors.KindTypeNotFound, module, fmt.Errorf("type name must have the form '<type>, <module>'"))
	}

	if err := l.checkHostVersion(ref.HostVersion); err != nil {
		return LoadedExtension{}, fail(errors.KindVersionMismatch, module, err)
	}

	handle, err := l.resolver.Resolve(ctx, module, ref.HintPath, searchRoot, l.config.builtins)
	if err != nil {
		if stdErrors.Is(err, ErrBuiltinModule) {
			return LoadedExtension{}, fail(errors.KindBuiltinCollision, module, nil)
		}
		return LoadedExtension{}, fail(errors.KindModuleUnresolvable, module, nil)
	}

	sym, ok := l.lookup.Lookup(handle, tn.Type, l.config.comparison)
	if !ok {
		return LoadedExtension{}, fail(errors.KindTypeNotFound, module, nil)
	}

	if !l.config.contract.Satisfied(sym) {
		return LoadedExtension{}, fail(errors.KindCapabilityMismatch, module,
			fmt.Errorf("%s contract requires %s, got %s", l.config.contract.Name(), contractHint(l.config.contract), sym.Signature()))
	}

	return LoadedExtension{
		Module:    handle,
		Symbol:    sym,
		Type:      entities.TypeIdentity{FullName: sym.Name(), Module: handle.Name()},
		Reference: ref,
	}, nil
}

func (l *TypeLoader) checkHostVersion(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid host version constraint %q: %w", constraint, err)
	}
	if l.config.hostVersion == nil {
		return nil
	}
	if ok, errs := c.Validate(l.config.hostVersion); !ok {
		return fmt.Errorf("host version %s: %w", l.config.hostVersion, stdErrors.Join(errs...))
	}
	return nil
}

func contractHint(c ports.CapabilityContract) string {
	if sc, ok := c.(*SignatureContract); ok {
		return sc.signature.String()
	}
	return "a matching symbol"
}
