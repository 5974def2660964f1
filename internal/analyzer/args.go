package analyzer

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

// SubstituteFunctionArgs implements spec.md §4.2's seven-step call-site
// argument substitution: unfold the callee type, detect a trailing
// variadic parameter, partition named/positional arguments, fill named
// slots by name, fill positional slots (spilling into the variadic tail
// once the fixed slots are full), type-check every filled slot under
// strict-numbers Compatible, then require every non-variadic slot filled.
//
// calleeType's Class must be ClassFunction, or Any (deferred to runtime
// dispatch); anything else is "not a function". Returns the call's result
// type, the arguments reordered into parameter-slot order (variadic
// arguments appended at the end), and whether substitution succeeded.
func (a *Analyzer) SubstituteFunctionArgs(calleeType typesystem.ID, args []ast.Arg, callLoc diagnostics.Location) (typesystem.ID, []ast.Expression, bool) {
	undefined := a.Types.MustLookup("Undefined")

	if a.Types.IsAny(calleeType) {
		ordered := make([]ast.Expression, len(args))
		for i, arg := range args {
			ordered[i] = arg.Value
		}
		return a.Types.MustLookup("Any"), ordered, true
	}

	ty := a.Types.Get(calleeType)
	if ty == nil || ty.Class != typesystem.ClassFunction {
		a.errorf(diagnostics.KindNotAFunction, callLoc, "call target is not a function")
		return undefined, nil, false
	}

	paramTypes := ty.FuncParams
	paramNames := make([]string, len(paramTypes))
	variadic := false
	if fn, ok := a.FuncExprs[calleeType]; ok {
		for i, p := range fn.Params {
			if i < len(paramNames) {
				paramNames[i] = p.Name
			}
			if p.Variadic {
				variadic = true
			}
		}
	}

	var named, positional []ast.Arg
	for _, arg := range args {
		if arg.Name != "" {
			named = append(named, arg)
		} else {
			positional = append(positional, arg)
		}
	}

	filled := make([]ast.Expression, len(paramTypes))
	filledSet := make([]bool, len(paramTypes))
	var variadicExtra []ast.Expression

	for _, arg := range named {
		idx := -1
		for i, n := range paramNames {
			if n == arg.Name && !filledSet[i] {
				idx = i
				break
			}
		}
		if idx == -1 {
			a.errorf(diagnostics.KindNamedArgNotFound, callLoc, "no parameter named %q", arg.Name)
			return undefined, nil, false
		}
		filled[idx] = arg.Value
		filledSet[idx] = true
	}

	next := 0
	for _, arg := range positional {
		for next < len(filledSet) && filledSet[next] {
			next++
		}
		if next >= len(filledSet) {
			if variadic {
				variadicExtra = append(variadicExtra, arg.Value)
				continue
			}
			a.errorf(diagnostics.KindTooManyArgs, callLoc, "too many arguments")
			return undefined, nil, false
		}
		filled[next] = arg.Value
		filledSet[next] = true
		next++
	}

	for i, v := range filled {
		if !filledSet[i] {
			continue
		}
		if !a.Types.Compatible(paramTypes[i], v.GetExprType(), true) {
			a.errorf(diagnostics.KindMismatchedTypes, callLoc, "argument %d is not compatible with its parameter type", i+1)
			return undefined, nil, false
		}
	}

	for i := range filled {
		if variadic && i == len(filled)-1 {
			continue // the variadic slot is satisfied by zero or more spilled args
		}
		if !filledSet[i] {
			a.errorf(diagnostics.KindTooFewArgs, callLoc, "too few arguments: missing parameter %d", i+1)
			return undefined, nil, false
		}
	}

	ordered := append([]ast.Expression{}, filled...)
	ordered = append(ordered, variadicExtra...)
	return ty.FuncReturn, ordered, true
}
