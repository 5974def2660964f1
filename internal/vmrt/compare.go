package vmrt

// Ordering is the three-way result of Compare, latched into a thread's
// compare-flags by CMP/CMPZ and consumed by the conditional jump family
// (spec.md §4.4: "jumps read the compare-flags set by CMP/CMPZ").
type Ordering int

const (
	Less Ordering = -1
	Equal Ordering = 0
	Greater Ordering = 1
)

// Compare implements spec.md §4.4's comparison semantics: numeric operands
// promote to the wider of the two per I32 < I64 < F32 < F64, heap-pointer
// comparison is identity (same handle), and any other pairing of distinct
// kinds is a cannot-compare runtime error — except that a null operand is
// always comparable against anything for equality (Equal iff both are
// null).
func Compare(a, b Value) (Ordering, error) {
	if a.Kind == KindNone || b.Kind == KindNone {
		if a.Kind == b.Kind {
			return Equal, nil
		}
		return Greater, nil // null vs non-null: unequal, never "less"
	}
	if a.IsNumeric() && b.IsNumeric() {
		wide := promote(a.Kind, b.Kind)
		if wide == KindI32 || wide == KindI64 {
			x, y := a.asInt(), b.asInt()
			switch {
			case x < y:
				return Less, nil
			case x > y:
				return Greater, nil
			default:
				return Equal, nil
			}
		}
		x, y := a.asFloat(), b.asFloat()
		switch {
		case x < y:
			return Less, nil
		case x > y:
			return Greater, nil
		default:
			return Equal, nil
		}
	}
	if a.Kind == KindBool && b.Kind == KindBool {
		switch {
		case a.AsBool() == b.AsBool():
			return Equal, nil
		case !a.AsBool():
			return Less, nil
		default:
			return Greater, nil
		}
	}
	if (a.Kind == KindHeapPointer || a.Kind == KindValueRef) &&
		(b.Kind == KindHeapPointer || b.Kind == KindValueRef) {
		if a.Heap == b.Heap {
			return Equal, nil
		}
		return Greater, nil // distinct identities: unequal, no ordering
	}
	return Equal, newRuntimeError(ErrCannotCompare, "cannot compare %s and %s", a.Kind, b.Kind)
}
