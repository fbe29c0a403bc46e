// Package ports defines interfaces for infrastructure operations.
// These ports enable dependency inversion - discovery logic depends on abstractions,
// and infrastructure adapters (wazero, parsers, validators) implement these interfaces.
package ports
