// Package errors provides the discovery error taxonomy.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/reglet-ext/domain/entities"
)

// ErrHostRootRequired is returned when discovery is started without a host root.
// It is the only discovery failure that reaches the caller.
var ErrHostRootRequired = stdErrors.New("host root path is required")

// ErrManifestIsDirectory is the cause recorded when the manifest path names a directory.
var ErrManifestIsDirectory = stdErrors.New("path is a directory")

// Kind classifies a discovery failure.
type Kind string

const (
	KindManifestMissing      Kind = "manifest_missing"
	KindManifestMalformed    Kind = "manifest_malformed"
	KindManifestShapeInvalid Kind = "manifest_shape_invalid"
	KindInvalidReference     Kind = "invalid_reference"
	KindModuleUnresolvable   Kind = "module_unresolvable"
	KindTypeNotFound         Kind = "type_not_found"
	KindCapabilityMismatch   Kind = "capability_mismatch"
	KindBuiltinCollision     Kind = "builtin_collision"
	KindVersionMismatch      Kind = "version_mismatch"
	KindInternal             Kind = "internal"
)

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// KindOf returns the Kind carried by err, or "" when err is not a discovery error.
func KindOf(err error) Kind {
	var me *ManifestError
	if stdErrors.As(err, &me) {
		return me.Kind
	}
	var ee *ExtensionError
	if stdErrors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// ManifestError is a whole-manifest failure. Discovery absorbs it into an
// empty result.
type ManifestError struct {
	Err  error
	Path string
	Kind Kind
}

func (e *ManifestError) Error() string {
	var what string
	switch e.Kind {
	case KindManifestMissing:
		what = "not found"
	case KindManifestShapeInvalid:
		what = "missing the 'extensions' collection"
	default:
		what = "unable to parse"
		if stdErrors.Is(e.Err, ErrManifestIsDirectory) {
			what = "unable to read"
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("extensions manifest %s: %s: %v", e.Path, what, e.Err)
	}
	return fmt.Sprintf("extensions manifest %s: %s", e.Path, what)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ManifestError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail("manifest", e.Error()).
		WithCode(string(e.Kind)).
		WithDetails(map[string]any{"path": e.Path})
	detail.IsNotFound = e.Kind == KindManifestMissing
	return detail
}

// ExtensionError is a per-reference failure. The reference is skipped and
// discovery continues with the next one.
type ExtensionError struct {
	Err       error
	Extension string // display name
	TypeName  string
	Module    string
	Kind      Kind
}

func (e *ExtensionError) Error() string {
	prefix := fmt.Sprintf("unable to load startup extension '%s' (%s)", e.Extension, e.TypeName)
	var msg string
	switch e.Kind {
	case KindModuleUnresolvable, KindTypeNotFound:
		msg = prefix + ": the type does not exist"
	case KindCapabilityMismatch:
		msg = prefix + ": type is not a valid startup extension"
	case KindBuiltinCollision:
		msg = fmt.Sprintf("%s: module '%s' is a built-in module and cannot be loaded as an extension", prefix, e.Module)
	case KindVersionMismatch:
		msg = prefix + ": host version requirement not met"
	case KindInvalidReference:
		msg = "invalid extension reference"
		if e.Extension != "" {
			msg = fmt.Sprintf("invalid extension reference '%s'", e.Extension)
		}
	default:
		msg = prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExtensionError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ExtensionError) ToErrorDetail() *entities.ErrorDetail {
	details := map[string]any{"typeName": e.TypeName}
	if e.Extension != "" {
		details["extension"] = e.Extension
	}
	if e.Module != "" {
		details["module"] = e.Module
	}
	detail := entities.NewErrorDetail("extension", e.Error()).
		WithCode(string(e.Kind)).
		WithDetails(details)
	detail.IsNotFound = e.Kind == KindModuleUnresolvable || e.Kind == KindTypeNotFound
	return detail
}
