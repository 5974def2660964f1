package typesystem

import (
	"fmt"
	"strings"
)

// Subst maps a generic-parameter type ID to the concrete type ID that
// replaces it during instantiation.
type Subst map[ID]ID

// Instantiate materializes a new generic-instance type from template
// (arity n, or variadic) and n supplied argument types, substituting every
// occurrence of a generic-parameter member-type by the corresponding
// supplied type, position-matched by parameter name (spec.md §4.1
// "Generic instantiation"). Unsubstituted generic-parameters resolve to
// Undefined.
//
// Grounded on the teacher's internal/typesystem/replace.go substitution
// walk, repurposed from type-variable substitution to generic-parameter
// member substitution.
func (t *Table) Instantiate(template ID, args []ID) (ID, error) {
	tmpl := t.Get(template)
	if tmpl == nil || tmpl.Class != ClassGenericTemplate {
		return NoID, fmt.Errorf("typesystem: %v is not a generic template", template)
	}
	if tmpl.TemplateArity >= 0 && len(args) != tmpl.TemplateArity {
		return NoID, fmt.Errorf("typesystem: template %s expects %d parameters, got %d",
			tmpl.Name, tmpl.TemplateArity, len(args))
	}

	subst := make(Subst, len(tmpl.TemplateParams))
	for i, p := range tmpl.TemplateParams {
		if i < len(args) {
			subst[p] = args[i]
		}
	}

	names := make([]string, len(args))
	for i, a := range args {
		if ty := t.Get(a); ty != nil {
			names[i] = ty.Name
		} else {
			names[i] = "?"
		}
	}
	instName := fmt.Sprintf("%s(%s)", tmpl.Name, strings.Join(names, ", "))

	if existing, ok := t.byName[instName]; ok {
		if ty := t.Get(existing); ty != nil && ty.Class == ClassGenericInstance && ty.TemplateID == template {
			return existing, nil
		}
	}

	id := t.New(instName, ClassGenericInstance)
	inst := t.Get(id)
	inst.TemplateID = template
	inst.InstanceArgs = append([]ID(nil), args...)
	inst.Base = template
	inst.Members = t.substituteMembers(tmpl.Members, subst)
	return id, nil
}

// substituteMembers rewrites a member list, replacing any member whose
// type is a generic-parameter present in subst, and recursing into
// already-instantiated generic members so nested generics substitute too.
func (t *Table) substituteMembers(members []Member, subst Subst) []Member {
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = Member{
			Name:    m.Name,
			Type:    t.substituteType(m.Type, subst),
			Default: m.Default,
		}
	}
	return out
}

func (t *Table) substituteType(id ID, subst Subst) ID {
	if repl, ok := subst[id]; ok {
		return repl
	}
	ty := t.Get(id)
	if ty == nil {
		return id
	}
	switch ty.Class {
	case ClassGenericParameter:
		if repl, ok := subst[id]; ok {
			return repl
		}
		return t.MustLookup("Undefined")
	case ClassGenericInstance:
		newArgs := make([]ID, len(ty.InstanceArgs))
		changed := false
		for i, a := range ty.InstanceArgs {
			newArgs[i] = t.substituteType(a, subst)
			if newArgs[i] != a {
				changed = true
			}
		}
		if !changed {
			return id
		}
		newID, err := t.Instantiate(ty.TemplateID, newArgs)
		if err != nil {
			return id
		}
		return newID
	default:
		return id
	}
}

// NewGenericParameter interns a fresh generic-parameter placeholder type
// named name, for use inside a generic-template's member list.
func (t *Table) NewGenericParameter(name string) ID {
	return t.New(name, ClassGenericParameter)
}

// NewTemplate interns a fresh generic-template with the given formal
// parameter IDs (each normally produced by NewGenericParameter) and
// member list referencing them. arity -1 marks a variadic template.
func (t *Table) NewTemplate(name string, arity int, params []ID, members []Member) ID {
	id := t.New(name, ClassGenericTemplate)
	ty := t.Get(id)
	ty.TemplateArity = arity
	ty.TemplateParams = params
	ty.Members = members
	return id
}
