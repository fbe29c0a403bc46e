package discovery_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

var startup = entities.Signature{Results: []entities.ValueType{entities.ValueTypeI32}}

type fakeModule struct {
	exports map[string]entities.Signature
	name    string
	path    string
}

func (m *fakeModule) Name() string   { return m.name }
func (m *fakeModule) Path() string   { return m.path }
func (m *fakeModule) Digest() string { return "digest:" + m.path }

// fakeLoader serves modules keyed by path and records every load.
type fakeLoader struct {
	byPath  map[string]map[string]entities.Signature
	loaded  map[string]*fakeModule
	panicOn string
	calls   []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		byPath: make(map[string]map[string]entities.Signature),
		loaded: make(map[string]*fakeModule),
	}
}

func (l *fakeLoader) add(path string, exports map[string]entities.Signature) {
	l.byPath[path] = exports
}

func (l *fakeLoader) Load(_ context.Context, name, path string) (ports.ModuleHandle, error) {
	l.calls = append(l.calls, path)
	if path == l.panicOn {
		panic("corrupt module table")
	}
	if m, ok := l.loaded[path]; ok {
		return m, nil
	}
	exports, ok := l.byPath[path]
	if !ok {
		return nil, fmt.Errorf("cannot compile %s", path)
	}
	m := &fakeModule{name: name, path: path, exports: exports}
	l.loaded[path] = m
	return m, nil
}

type fakeSymbol struct {
	module *fakeModule
	name   string
	sig    entities.Signature
}

func (s *fakeSymbol) Name() string                  { return s.name }
func (s *fakeSymbol) Module() ports.ModuleHandle    { return s.module }
func (s *fakeSymbol) Signature() entities.Signature { return s.sig }

type fakeLookup struct{}

func (fakeLookup) Lookup(h ports.ModuleHandle, name string, cmp entities.NameComparison) (ports.Symbol, bool) {
	m, ok := h.(*fakeModule)
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(m.exports))
	for n := range m.exports {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if cmp.Equal(n, name) {
			return &fakeSymbol{module: m, name: n, sig: m.exports[n]}, true
		}
	}
	return nil, false
}
