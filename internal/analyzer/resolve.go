package analyzer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/symbols"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

// ResolveKind classifies what a name resolved to (spec.md §4.2: "Each
// lookup returns one of {variable, module, type, not-found}").
type ResolveKind int

const (
	ResolveNotFound ResolveKind = iota
	ResolveVariable
	ResolveModule
	ResolveType
)

// Resolution is the result of looking a name up in the current analysis
// position.
type Resolution struct {
	Kind   ResolveKind
	Ident  *symbols.Identifier
	Module *symbols.Module
	Type   typesystem.ID
}

// Resolve implements spec.md §4.2's ordered identifier lookup: the current
// module's scope stack (innermost-first), the global module, the
// registered module list (module-name references), then the module's
// symbol-type table (type names).
func (a *Analyzer) Resolve(name string) Resolution {
	if id, ok := lookupIdentInScopes(a.Current.Scopes(), name); ok {
		return Resolution{Kind: ResolveVariable, Ident: id}
	}
	if a.Current != a.Global {
		if id, ok := lookupIdentInScopes(a.Global.Scopes(), name); ok {
			return Resolution{Kind: ResolveVariable, Ident: id}
		}
	}
	if mod, ok := a.Modules[name]; ok {
		return Resolution{Kind: ResolveModule, Module: mod}
	}
	if id, ok := lookupTypeInScopes(a.Current.Scopes(), name); ok {
		return Resolution{Kind: ResolveType, Type: id}
	}
	if a.Current != a.Global {
		if id, ok := lookupTypeInScopes(a.Global.Scopes(), name); ok {
			return Resolution{Kind: ResolveType, Type: id}
		}
	}
	if id, ok := a.Types.Lookup(name); ok {
		return Resolution{Kind: ResolveType, Type: id}
	}
	return Resolution{Kind: ResolveNotFound}
}

func lookupIdentInScopes(scopes []*symbols.Scope, name string) (*symbols.Identifier, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if id, ok := scopes[i].LookupIdentifier(name); ok {
			return id, true
		}
	}
	return nil, false
}

func lookupTypeInScopes(scopes []*symbols.Scope, name string) (typesystem.ID, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if id, ok := scopes[i].LookupType(name); ok {
			return id, true
		}
	}
	return typesystem.NoID, false
}

// resolveTypeExpr resolves a parsed TypeExpr to a typesystem.ID, performing
// generic instantiation for a parameterized reference (spec.md §4.1
// "Generic instantiation").
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) typesystem.ID {
	n, ok := te.(*ast.NamedTypeExpr)
	if !ok || n == nil {
		return a.Types.MustLookup("Undefined")
	}
	if len(n.Args) == 0 {
		res := a.Resolve(n.Name)
		if res.Kind == ResolveType {
			return res.Type
		}
		a.errorf(diagnostics.KindUndeclaredIdentifier, n.Loc, "undeclared type %q", n.Name)
		return a.Types.MustLookup("Undefined")
	}

	templateID, ok := a.Types.Lookup(n.Name)
	if !ok {
		a.errorf(diagnostics.KindUndeclaredIdentifier, n.Loc, "undeclared generic template %q", n.Name)
		return a.Types.MustLookup("Undefined")
	}
	args := make([]typesystem.ID, len(n.Args))
	for i, argExpr := range n.Args {
		args[i] = a.resolveTypeExpr(argExpr)
	}
	inst, err := a.Types.Instantiate(templateID, args)
	if err != nil {
		a.errorf(diagnostics.KindMismatchedTypes, n.Loc, "%s", err)
		return a.Types.MustLookup("Undefined")
	}
	return inst
}
