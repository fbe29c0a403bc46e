// Package discovery resolves the startup extensions declared in the host's
// extensions manifest.
//
// A discovery run reads the manifest, resolves each reference to a module
// through a ModuleLoader, looks the named type up inside that module, checks
// it against the capability contract, and collapses duplicates by type name:
//
//	Start -> Read -> Resolve (each) -> Validate (each) -> Dedupe -> Done
//
// Every failure skips only the entry that caused it. A run always ends with a
// (possibly empty) list; the only errors returned are a missing host root and
// context cancellation.
//
// A Discoverer is not safe for concurrent use. The host runs discovery once,
// during startup.
package discovery
