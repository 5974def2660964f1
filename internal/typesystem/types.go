// Package typesystem implements the structural, generic type system of
// spec.md §3.3/§4.1: a single Type record per class tag, interned in a
// Table indexed by a monotonic ID so that cyclic references (a type's
// default value referencing the type itself) never need the type's own
// construction to have completed (spec.md §9, design note 1).
//
// Grounded on the teacher's internal/typesystem/types.go for the overall
// "Type described by a small struct, walked by a table-aware function"
// shape, but re-keyed from the teacher's Hindley-Milner TVar/TApp/TCon
// inference scheme to the spec's nominal/structural class-tag scheme —
// this module performs no unification or inference, only structural
// comparison and generic-parameter substitution.
package typesystem

import "fmt"

// ID is a type's identity within a Table. The zero value, NoID, never
// names a real type.
type ID int

// NoID is the sentinel "no type" identity, used for absent optional fields
// such as a type's base. Undefined is a registered builtin with an ID of
// its own, not NoID.
const NoID ID = 0

// Class tags a Type's role in the system (spec.md §3.3).
type Class int

const (
	ClassBuiltin Class = iota
	ClassUserDefined
	ClassAlias
	ClassFunction
	ClassArray
	ClassGenericTemplate
	ClassGenericInstance
	ClassGenericParameter
)

func (c Class) String() string {
	switch c {
	case ClassBuiltin:
		return "builtin"
	case ClassUserDefined:
		return "user-defined"
	case ClassAlias:
		return "alias"
	case ClassFunction:
		return "function"
	case ClassArray:
		return "array"
	case ClassGenericTemplate:
		return "generic-template"
	case ClassGenericInstance:
		return "generic-instance"
	case ClassGenericParameter:
		return "generic-parameter"
	default:
		return "unknown"
	}
}

// Member is one named, typed slot of a Type, with an optional default
// expression (spec.md §3.3).
type Member struct {
	Name    string
	Type    ID
	Default interface{} // an ast.Expression; kept opaque to avoid an import cycle
}

// Type is the compiler's representation of an Ace language type.
type Type struct {
	ID      ID
	Name    string
	Class   Class
	Base    ID          // weak back-reference; relation only, never ownership
	Default interface{} // an ast.Expression materializing a zero value
	Members []Member

	// Class-specific payload.
	AliasOf ID // ClassAlias

	FuncParams []ID // ClassFunction
	FuncReturn ID

	TemplateArity  int // ClassGenericTemplate; -1 means variadic
	TemplateParams []ID

	TemplateID  ID   // ClassGenericInstance: template this instantiates
	InstanceArgs []ID // ClassGenericInstance: substituted parameters (index 0 is the return type for Function instances)
}

// MemberByName returns the member named name, if any.
func (t *Type) MemberByName(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// Table interns every Type reachable from a compilation unit, giving each
// a stable ID so references between types (Base, AliasOf, member types)
// never require their target to already be fully constructed.
type Table struct {
	types  []*Type
	byName map[string]ID
}

// NewTable returns an empty table with the builtin types registered,
// matching the set spec.md §3.3 names as created once at start-up.
func NewTable() *Table {
	t := &Table{byName: make(map[string]ID)}
	t.types = append(t.types, nil) // index 0 == NoID is never a real type
	t.registerBuiltins()
	return t
}

// New interns a fresh, empty Type of the given name/class and returns its
// ID. Callers fill in the returned *Type's fields before use; this is what
// lets default-value ASTs reference their own owning type.
func (t *Table) New(name string, class Class) ID {
	id := ID(len(t.types))
	ty := &Type{ID: id, Name: name, Class: class}
	t.types = append(t.types, ty)
	if name != "" {
		t.byName[name] = id
	}
	return id
}

// Get returns the Type for id, or nil if id is NoID or out of range.
func (t *Table) Get(id ID) *Type {
	if id <= NoID || int(id) >= len(t.types) {
		return nil
	}
	return t.types[id]
}

// Lookup finds a registered type by its display name.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// MustLookup is Lookup but panics if the name is not registered; used only
// for the fixed builtin names this table itself registers.
func (t *Table) MustLookup(name string) ID {
	id, ok := t.byName[name]
	if !ok {
		panic(fmt.Sprintf("typesystem: builtin %q not registered", name))
	}
	return id
}

// Rename re-indexes a type under a new display name (used when a
// generic-instance's computed name, e.g. "Array(Int)", is only known once
// its arguments have been substituted).
func (t *Table) Rename(id ID, name string) {
	ty := t.Get(id)
	if ty == nil {
		return
	}
	ty.Name = name
	t.byName[name] = id
}

func (t *Table) registerBuiltins() {
	names := []string{
		"Undefined", "Any", "Object", "Int", "Float", "Number", "Boolean",
		"String", "Null",
	}
	for _, n := range names {
		t.New(n, ClassBuiltin)
	}
	// Undefined has no default value per the invariant in spec.md §3.3;
	// every other builtin is still given one by the analyzer once AST
	// construction helpers exist (see analyzer/builtins.go).

	function := t.New("Function", ClassGenericTemplate)
	t.Get(function).TemplateArity = -1 // variadic: N params + 1 return

	array := t.New("Array", ClassGenericTemplate)
	t.Get(array).TemplateArity = 1

	tuple := t.New("Tuple", ClassGenericTemplate)
	t.Get(tuple).TemplateArity = -1

	args := t.New("Args", ClassGenericTemplate)
	t.Get(args).TemplateArity = 1

	maybe := t.New("Maybe", ClassGenericTemplate)
	t.Get(maybe).TemplateArity = 1

	constT := t.New("Const", ClassGenericTemplate)
	t.Get(constT).TemplateArity = 1

	block := t.New("Block", ClassGenericTemplate)
	t.Get(block).TemplateArity = 1

	closure := t.New("Closure", ClassGenericTemplate)
	t.Get(closure).TemplateArity = -1

	generator := t.New("Generator", ClassGenericTemplate)
	t.Get(generator).TemplateArity = 1
}

// IsUndefined reports whether id names the Undefined builtin.
func (t *Table) IsUndefined(id ID) bool {
	ty := t.Get(id)
	return ty != nil && ty.Name == "Undefined"
}

// IsAny reports whether id names the Any builtin.
func (t *Table) IsAny(id ID) bool {
	ty := t.Get(id)
	return ty != nil && ty.Name == "Any"
}

func (t *Table) isNamed(id ID, name string) bool {
	ty := t.Get(id)
	return ty != nil && ty.Name == name && ty.Class == ClassBuiltin
}

func (t *Table) IsInt(id ID) bool    { return t.isNamed(id, "Int") }
func (t *Table) IsFloat(id ID) bool  { return t.isNamed(id, "Float") }
func (t *Table) IsNumber(id ID) bool { return t.isNamed(id, "Number") }
func (t *Table) IsString(id ID) bool { return t.isNamed(id, "String") }
