package emit

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
)

// RegisterAllocator is the monotonic register-file cursor of spec.md
// §4.3: a single counter, incremented to acquire the next scratch
// register and decremented once a sub-expression's result has been
// consumed by its parent.
type RegisterAllocator struct {
	cursor bytecode.Register
}

// Current returns the register the next instruction should target.
func (r *RegisterAllocator) Current() bytecode.Register { return r.cursor }

// Inc advances the cursor to the next register and returns it.
func (r *RegisterAllocator) Inc() bytecode.Register {
	r.cursor++
	return r.cursor
}

// Dec retreats the cursor, releasing the current register back to its
// caller once consumed.
func (r *RegisterAllocator) Dec() bytecode.Register {
	r.cursor--
	return r.cursor
}

// BinaryStrategy names which of the three evaluation orders spec.md §4.3
// prescribes for a binary expression's operands.
type BinaryStrategy int

const (
	// LoadLeftThenRight: neither operand has side effects, so evaluation
	// order is free; evaluate left into the current register, then right
	// into the next one.
	LoadLeftThenRight BinaryStrategy = iota
	// LoadRightThenLeft: only the right operand has side effects;
	// evaluating it first still leaves the left operand's value (a pure
	// read) correct once loaded after.
	LoadRightThenLeft
	// LoadLeftAndStore: both operands have side effects, so order must
	// be preserved left-to-right, but the left result must survive the
	// right operand's evaluation without a dedicated register — computed
	// into the current register, pushed to the operand stack, then
	// reloaded after the right operand has been computed.
	LoadLeftAndStore
)

// ChooseBinaryStrategy implements spec.md §4.3's three-way decision from
// each operand's MayHaveSideEffects().
func ChooseBinaryStrategy(left, right ast.Expression) BinaryStrategy {
	leftEffects := left.MayHaveSideEffects()
	rightEffects := right.MayHaveSideEffects()
	switch {
	case leftEffects && rightEffects:
		return LoadLeftAndStore
	case rightEffects && !leftEffects:
		return LoadRightThenLeft
	default:
		return LoadLeftThenRight
	}
}
