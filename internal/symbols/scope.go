package symbols

import (
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

// ScopeType tags the kind of a Scope (spec.md §3.4).
type ScopeType int

const (
	ScopeNormal ScopeType = iota
	ScopeFunction
	ScopeTypeDefinition
	ScopeLoop
)

// FunctionFlag is a bit-flag set on a function scope (spec.md §3.4).
type FunctionFlag uint8

const (
	FuncPure FunctionFlag = 1 << iota
	FuncClosure
	FuncGenerator
)

// ReturnTypeUse pairs an observed function return type with the source
// location that introduced it (spec.md §3.4).
type ReturnTypeUse struct {
	Type typesystem.ID
	Loc  diagnostics.Location
}

// FreeVariable is an identifier captured from an enclosing function,
// recorded on the capturing function's scope by the closure-capture rule
// (spec.md §4.2).
type FreeVariable struct {
	Name   string
	Source *Identifier
}

// Scope owns an identifier table and a symbol-type table, and carries the
// scope-type/function-flag tags spec.md §3.4 describes.
type Scope struct {
	Type      ScopeType
	FuncFlags FunctionFlag

	idents     map[string]*Identifier
	identOrder []string

	types map[string]typesystem.ID

	ReturnTypes []ReturnTypeUse
	FreeVars    []FreeVariable
}

func newScope(t ScopeType) *Scope {
	return &Scope{
		Type:   t,
		idents: make(map[string]*Identifier),
		types:  make(map[string]typesystem.ID),
	}
}

// DeclareIdentifier adds a new identifier to this scope. It does not check
// for redeclaration; callers (the analyzer) are responsible for reporting
// the redeclared-identifier diagnostic before calling this.
func (s *Scope) DeclareIdentifier(name string, typ typesystem.ID, flags Flag) *Identifier {
	id := &Identifier{
		Name:  name,
		Index: len(s.identOrder),
		Slot:  -1,
		Flags: flags,
		Type:  typ,
	}
	s.idents[name] = id
	s.identOrder = append(s.identOrder, name)
	return id
}

// LookupIdentifier finds an identifier declared directly in this scope.
func (s *Scope) LookupIdentifier(name string) (*Identifier, bool) {
	id, ok := s.idents[name]
	return id, ok
}

// Identifiers returns every identifier declared in this scope, in
// declaration order.
func (s *Scope) Identifiers() []*Identifier {
	out := make([]*Identifier, len(s.identOrder))
	for i, n := range s.identOrder {
		out[i] = s.idents[n]
	}
	return out
}

// DeclareType registers a symbol-type under name in this scope's type
// table.
func (s *Scope) DeclareType(name string, id typesystem.ID) {
	s.types[name] = id
}

// LookupType finds a symbol-type declared directly in this scope.
func (s *Scope) LookupType(name string) (typesystem.ID, bool) {
	id, ok := s.types[name]
	return id, ok
}

// RecordReturnType appends an observed return type/location pair, used by
// the analyzer while visiting return statements inside a function scope.
func (s *Scope) RecordReturnType(t typesystem.ID, loc diagnostics.Location) {
	s.ReturnTypes = append(s.ReturnTypes, ReturnTypeUse{Type: t, Loc: loc})
}

// AddFreeVariable records v as captured by this (function) scope, unless
// already recorded.
func (s *Scope) AddFreeVariable(name string, src *Identifier) {
	for _, fv := range s.FreeVars {
		if fv.Name == name {
			return
		}
	}
	s.FreeVars = append(s.FreeVars, FreeVariable{Name: name, Source: src})
}

// IsFunction reports whether this scope is a function scope.
func (s *Scope) IsFunction() bool { return s.Type == ScopeFunction }
