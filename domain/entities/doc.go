// Package entities provides the core domain types for extension discovery:
// manifest references, parsed type names, type identities, the built-in module
// set and the name comparison policy.
package entities
