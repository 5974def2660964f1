package analyzer

import "github.com/ajmd17/ace-lang-sub001/internal/symbols"

// checkCapture implements spec.md §4.2's closure-capture rule: if ident is
// flagged declared-in-function but its home scope sits above (outside) the
// current function's own scope, it belongs to an enclosing function and is
// recorded as a free variable on the innermost function scope — the one
// doing the capturing.
//
// scopeIdx is the index (within a.Current.Scopes()) at which ident was
// found; callers get this from resolveVariableWithDepth rather than the
// depth-blind Resolve, since the capture rule specifically needs to know
// how far up the stack the binding lives.
func (a *Analyzer) checkCapture(ident *symbols.Identifier, scopeIdx int) bool {
	if !ident.Flags.Has(symbols.FlagDeclaredInFunction) {
		return false
	}
	funcScope := a.Current.EnclosingFunctionScope()
	if funcScope == nil {
		return false
	}
	scopes := a.Current.Scopes()
	funcScopeIdx := -1
	for i, s := range scopes {
		if s == funcScope {
			funcScopeIdx = i
		}
	}
	if funcScopeIdx < 0 || scopeIdx >= funcScopeIdx {
		return false // declared within the current function's own scopes, not a capture
	}
	funcScope.AddFreeVariable(ident.Name, ident)
	return true
}

// resolveVariableWithDepth scans the current module's scope stack
// innermost-first, like Resolve's first tier, but also reports which scope
// index the binding was found at.
func (a *Analyzer) resolveVariableWithDepth(name string) (*symbols.Identifier, int, bool) {
	scopes := a.Current.Scopes()
	for i := len(scopes) - 1; i >= 0; i-- {
		if id, ok := scopes[i].LookupIdentifier(name); ok {
			return id, i, true
		}
	}
	return nil, -1, false
}
