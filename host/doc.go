// Package host bootstraps startup extensions for a host process.
//
// It owns the wazero runtime (through the loader scope), registers the
// built-in host modules, runs discovery against the host root and then
// instantiates each discovered module to call its startup export.
// Instantiation happens only here; discovery itself never runs guest code.
package host
