// Package symbols implements the module tree, scope stack, and identifier
// tables of spec.md §3.2/§3.4/§3.5/§3.6.
//
// Grounded on the teacher's internal/symbols/symbol_table_core.go (the
// Symbol struct shape) and symbol_table_resolution.go (ordered lookup
// scans), re-keyed from the teacher's trait/instance dictionary model to
// the spec's Identifier/Scope/Module trio.
package symbols

import (
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

// Flag is a bit-flag set on an Identifier (spec.md §3.2).
type Flag uint8

const (
	FlagConst Flag = 1 << iota
	FlagDeclaredInFunction
	FlagGeneric
	FlagAssigned // supplements spec.md: tracks whether the binding was ever assigned, per original_source's Identifier (see SPEC_FULL.md)
)

// Has reports whether f is set.
func (fl Flag) Has(f Flag) bool { return fl&f != 0 }

// Identifier is a named binding in a Scope.
type Identifier struct {
	Name     string
	Index    int // index within its scope
	Slot     int // stack slot, assigned at emission
	UseCount int
	Flags    Flag
	Type     typesystem.ID
	Value    interface{} // optional current-value AST node, for constant folding
}

// IsConst reports whether the identifier was declared const.
func (id *Identifier) IsConst() bool { return id.Flags.Has(FlagConst) }

// MarkUsed increments the identifier's use count, called by the analyzer
// every time a reference to it resolves.
func (id *Identifier) MarkUsed() { id.UseCount++ }
