package entities

import "strings"

// ExtensionReference is a manifest entry declaring a type to be loaded as a
// startup participant. References are immutable once read.
type ExtensionReference struct {
	// Name is an optional display name for diagnostics.
	Name string `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"description=Optional display name used in diagnostics"`

	// TypeName identifies the type and its owning module: "<type>, <module>".
	TypeName string `json:"typeName" yaml:"typeName" validate:"required" jsonschema:"required,minLength=1,description=Type and owning module as '<type-identifier>, <module-identifier>'"`

	// HintPath optionally locates the module artifact, absolute or relative to the bin directory.
	HintPath string `json:"hintPath,omitempty" yaml:"hintPath,omitempty" jsonschema:"description=Module artifact path; relative paths resolve against the bin directory"`

	// HostVersion is an optional semver constraint the host version must satisfy.
	HostVersion string `json:"hostVersion,omitempty" yaml:"hostVersion,omitempty" jsonschema:"description=Semver constraint on the host version"`
}

// DisplayName returns Name when set, otherwise TypeName.
func (r ExtensionReference) DisplayName() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return r.TypeName
}

// Normalized returns a copy with surrounding whitespace removed from every field.
func (r ExtensionReference) Normalized() ExtensionReference {
	return ExtensionReference{
		Name:        strings.TrimSpace(r.Name),
		TypeName:    strings.TrimSpace(r.TypeName),
		HintPath:    strings.TrimSpace(r.HintPath),
		HostVersion: strings.TrimSpace(r.HostVersion),
	}
}

// TypeIdentity is the resolved identity of a startup type.
// Two identities are the same type when their FullName values are byte-equal,
// regardless of the module they were loaded through.
type TypeIdentity struct {
	FullName string `json:"fullName"`
	Module   string `json:"module"`
}

func (t TypeIdentity) String() string {
	return t.FullName
}
