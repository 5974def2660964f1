package symbols

import (
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
)

// Module owns a stack-like tree of scopes plus a name, a source location,
// and a link into the global module tree so siblings can be looked up by
// name (spec.md §3.5).
type Module struct {
	Name     string
	Loc      diagnostics.Location
	Parent   *Module
	Children map[string]*Module

	scopes []*Scope
}

// NewGlobalModule constructs the root module of a module tree, already
// carrying one open ScopeNormal scope (the global scope).
func NewGlobalModule() *Module {
	m := &Module{Name: "global", Children: make(map[string]*Module)}
	m.scopes = append(m.scopes, newScope(ScopeNormal))
	return m
}

// NewChildModule creates a module declared inside parent (a `module` block
// or an import target), opening its own global-like top scope.
func NewChildModule(parent *Module, name string, loc diagnostics.Location) *Module {
	m := &Module{Name: name, Loc: loc, Parent: parent, Children: make(map[string]*Module)}
	m.scopes = append(m.scopes, newScope(ScopeNormal))
	if parent != nil {
		parent.Children[name] = m
	}
	return m
}

// OpenScope pushes a new scope of type t, opening a nested lexical region
// (spec.md §8: "every scope open must be paired with a close").
func (m *Module) OpenScope(t ScopeType) *Scope {
	s := newScope(t)
	m.scopes = append(m.scopes, s)
	return s
}

// CloseScope pops the innermost scope. Panics if called with no open
// non-root scope, since that would indicate an unbalanced open/close pair.
func (m *Module) CloseScope() {
	if len(m.scopes) <= 1 {
		panic("symbols: CloseScope called without a matching OpenScope")
	}
	m.scopes = m.scopes[:len(m.scopes)-1]
}

// CurrentScope returns the innermost open scope.
func (m *Module) CurrentScope() *Scope {
	return m.scopes[len(m.scopes)-1]
}

// Scopes returns the full scope stack, outermost first.
func (m *Module) Scopes() []*Scope {
	return m.scopes
}

// EnclosingFunctionScope returns the nearest enclosing function scope
// (searched innermost-first from the current scope), or nil if the
// current position is not inside any function.
func (m *Module) EnclosingFunctionScope() *Scope {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if m.scopes[i].IsFunction() {
			return m.scopes[i]
		}
	}
	return nil
}

// FunctionDepth returns the number of function scopes enclosing the
// current position. The analyzer's closure-capture check compares scope
// indices instead and does not call it.
func (m *Module) FunctionDepth() int {
	n := 0
	for _, s := range m.scopes {
		if s.IsFunction() {
			n++
		}
	}
	return n
}
