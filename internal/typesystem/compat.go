package typesystem

// Equal implements TypeEqual (spec.md §4.1): structural equality by class
// tag, name, member list (name+type, in order), plus class-specific
// payload equality.
func (t *Table) Equal(a, b ID) bool {
	if a == b {
		return true
	}
	ta, tb := t.Get(a), t.Get(b)
	if ta == nil || tb == nil {
		return ta == tb
	}
	if ta.Class != tb.Class || ta.Name != tb.Name {
		return false
	}
	if len(ta.Members) != len(tb.Members) {
		return false
	}
	for i, m := range ta.Members {
		n := tb.Members[i]
		if m.Name != n.Name || !t.Equal(m.Type, n.Type) {
			return false
		}
	}
	switch ta.Class {
	case ClassFunction:
		if !t.Equal(ta.FuncReturn, tb.FuncReturn) || len(ta.FuncParams) != len(tb.FuncParams) {
			return false
		}
		for i := range ta.FuncParams {
			if !t.Equal(ta.FuncParams[i], tb.FuncParams[i]) {
				return false
			}
		}
		return true
	case ClassGenericInstance:
		if len(ta.InstanceArgs) != len(tb.InstanceArgs) {
			return false
		}
		for i := range ta.InstanceArgs {
			if !t.Equal(ta.InstanceArgs[i], tb.InstanceArgs[i]) {
				return false
			}
		}
		return true
	case ClassAlias:
		return t.Equal(t.unfoldAlias(a), t.unfoldAlias(b))
	default:
		return true
	}
}

func (t *Table) unfoldAlias(id ID) ID {
	seen := map[ID]bool{}
	for {
		ty := t.Get(id)
		if ty == nil || ty.Class != ClassAlias {
			return id
		}
		if seen[id] {
			return id // defensive: alias cycle, stop rather than loop forever
		}
		seen[id] = true
		id = ty.AliasOf
	}
}

// Compatible implements TypeCompatible (spec.md §4.1), evaluated in the
// exact rule order the spec prescribes.
func (t *Table) Compatible(self, other ID, strictNumbers bool) bool {
	// 1. Undefined is compatible with nothing.
	if t.IsUndefined(self) || t.IsUndefined(other) {
		return false
	}
	// 2. Equal types are compatible.
	if t.Equal(self, other) {
		return true
	}
	// 3. Any accepts anything.
	if t.IsAny(self) {
		return true
	}
	// 4. Number accepts Int or Float.
	if t.IsNumber(self) && (t.IsInt(other) || t.IsFloat(other)) {
		return true
	}
	// 5. Under relaxed numeric rules, Int/Float accept Number, Int, Float.
	if !strictNumbers && (t.IsInt(self) || t.IsFloat(self)) {
		if t.IsNumber(other) || t.IsInt(other) || t.IsFloat(other) {
			return true
		}
	}
	// 6. Aliases unfold and recurse.
	selfTy := t.Get(self)
	if selfTy != nil && selfTy.Class == ClassAlias {
		return t.Compatible(selfTy.AliasOf, other, strictNumbers)
	}
	// 7. Generic instances: base-compatible and pairwise-compatible args.
	if selfTy != nil && selfTy.Class == ClassGenericInstance {
		otherTy := t.Get(other)
		if otherTy == nil || otherTy.Class != ClassGenericInstance {
			return false
		}
		if selfTy.TemplateID != otherTy.TemplateID {
			return false
		}
		if len(selfTy.InstanceArgs) != len(otherTy.InstanceArgs) {
			return false
		}
		for i := range selfTy.InstanceArgs {
			if !t.Compatible(selfTy.InstanceArgs[i], otherTy.InstanceArgs[i], strictNumbers) {
				return false
			}
		}
		return true
	}
	// 8. Otherwise, not compatible.
	return false
}

// Promote implements TypePromotion (spec.md §4.1): the least upper bound
// under the compatibility order, used by binary numeric operators and
// array-literal element unification.
func (t *Table) Promote(a, b ID, useNumber bool) ID {
	if t.Equal(a, b) {
		return a
	}
	if t.IsUndefined(a) || t.IsUndefined(b) {
		return t.MustLookup("Undefined")
	}
	if t.IsAny(a) || t.IsAny(b) {
		return t.MustLookup("Any")
	}
	if (t.IsInt(a) && t.IsFloat(b)) || (t.IsFloat(a) && t.IsInt(b)) {
		if useNumber {
			return t.MustLookup("Number")
		}
		if t.IsInt(a) {
			return b
		}
		return a
	}
	if (t.IsNumber(a) && (t.IsInt(b) || t.IsFloat(b))) || (t.IsNumber(b) && (t.IsInt(a) || t.IsFloat(a))) {
		return t.MustLookup("Number")
	}
	return t.MustLookup("Undefined")
}
