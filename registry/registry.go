// Package registry holds the engine's two construction-time, read-after-
// construction mappings: the function registry and the macro list. Both
// follow simon-lentz-yammm's schema/expr.BuiltinRegistry idiom: zero-value
// usable via lazy init, name validation deferred to lookup time rather than
// enforced at registration.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Tangerg/exprflow/value"
)

// Handler is a function-registry entry: it receives the decoded, already-
// evaluated argument vector and returns a Value, possibly suspending on
// ctx. The engine does not introspect a handler's arity or types; the
// handler owns that contract.
type Handler func(ctx context.Context, args []value.Value) (value.Value, error)

// FunctionRegistry maps case-sensitive function names to handlers. The
// zero value is ready to use.
type FunctionRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{}
}

func (r *FunctionRegistry) ensureInit() {
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
}

// Register installs h under name, overwriting any prior handler of the
// same name. Validation of the name against the eventual call site happens
// at evaluation time (UnknownFunction), not here.
func (r *FunctionRegistry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureInit()
	r.handlers[name] = h
}

func (r *FunctionRegistry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *FunctionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// macroPair is one registered (from, to) substitution.
type macroPair struct {
	From, To string
}

// MacroList is an ordered (from, to) substitution table. The zero value is
// ready to use.
type MacroList struct {
	mu    sync.RWMutex
	pairs []macroPair
}

func NewMacroList() *MacroList {
	return &MacroList{}
}

// Register appends a new substitution; pairs apply in registration order.
func (m *MacroList) Register(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs = append(m.pairs, macroPair{From: from, To: to})
}

// Apply runs every registered substitution over input in registration
// order, once each, left to right across the string.
func (m *MacroList) Apply(input string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := input
	for _, p := range m.pairs {
		if p.From == "" {
			continue
		}
		out = strings.ReplaceAll(out, p.From, p.To)
	}
	return out
}
