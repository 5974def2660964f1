package vmrt

import (
	"fmt"
	"math"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
)

// step decodes and executes exactly one instruction for t, advancing its
// PC (or branching it, for jumps/calls/returns). Grounded on the
// teacher's VM.step/execute loop in internal/vm/vm.go for the "read one
// opcode, big switch, advance PC" shape; redrawn instruction-for-
// instruction against bytecode.Opcode's register-machine set instead of
// the teacher's stack machine.
func (vm *VM) step(t *Thread) error {
	r := bytecode.NewReader(vm.Code)
	r.Pos = t.PC

	op, err := r.ReadOpcode()
	if err != nil {
		return err
	}

	switch op {
	case bytecode.OpExit:
		t.Done = true
		return nil

	case bytecode.OpLoadI32:
		reg, v, err := readRegI32(r)
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = I32(v)

	case bytecode.OpLoadI64:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		v, err := r.ReadI64()
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = I64(v)

	case bytecode.OpLoadF32:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		v, err := r.ReadF32()
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = F32(v)

	case bytecode.OpLoadF64:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		v, err := r.ReadF64()
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = F64(v)

	case bytecode.OpLoadString:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		id, err := r.ReadStaticID()
		if err != nil {
			return err
		}
		s, err := vm.staticString(int(id))
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = HeapPtr(vm.Heap.NewString(s))

	case bytecode.OpLoadAddr:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		id, err := r.ReadStaticID()
		if err != nil {
			return err
		}
		s, err := vm.static(int(id))
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = Addr(s.Addr)

	case bytecode.OpLoadFunc:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		id, err := r.ReadStaticID()
		if err != nil {
			return err
		}
		s, err := vm.static(int(id))
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = Func(FuncRef{Addr: s.Func.Addr, ArgCount: s.Func.ArgCount, Flags: s.Func.Flags})

	case bytecode.OpLoadType:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		id, err := r.ReadStaticID()
		if err != nil {
			return err
		}
		handle, err := vm.typeInfo(int(id))
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = HeapPtr(handle)

	case bytecode.OpLoadNull:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = Null()

	case bytecode.OpLoadTrue:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = Bool(true)

	case bytecode.OpLoadFalse:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		t.frame().Regs[reg] = Bool(false)

	case bytecode.OpLoadLocalOffset:
		reg, off, err := readRegOffset(r)
		if err != nil {
			return err
		}
		idx := t.frame().Base + int(off)
		if idx < 0 || idx >= len(t.Stack) {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrOutOfRange, "local slot %d out of range", off)))
		}
		t.frame().Regs[reg] = t.Stack[idx]

	case bytecode.OpLoadStaticIndex:
		reg, off, err := readRegOffset(r)
		if err != nil {
			return err
		}
		vm.ensureGlobal(int(off))
		t.frame().Regs[reg] = vm.Globals[off]

	case bytecode.OpLoadMemberIndex:
		reg, objReg, idx, err := readRegRegOffset(r)
		if err != nil {
			return err
		}
		obj := t.frame().Regs[objReg]
		if obj.Kind != KindHeapPointer {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrNullReference, "member access on non-object value")))
		}
		v, err := vm.Heap.MemberByIndex(obj.Heap, int(idx))
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		t.frame().Regs[reg] = v

	case bytecode.OpLoadMemberHash:
		reg, objReg, hash, err := readRegRegHash(r)
		if err != nil {
			return err
		}
		obj := t.frame().Regs[objReg]
		if obj.Kind != KindHeapPointer {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrNullReference, "member access on non-object value")))
		}
		v, err := vm.Heap.MemberByHash(obj.Heap, hash)
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		t.frame().Regs[reg] = v

	case bytecode.OpLoadArrayElem:
		reg, arrReg, idxReg, err := readRegRegReg(r)
		if err != nil {
			return err
		}
		arr := t.frame().Regs[arrReg]
		if arr.Kind != KindHeapPointer {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrNullReference, "index access on non-array value")))
		}
		idx, err := indexFromValue(t.frame().Regs[idxReg])
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		v, err := vm.Heap.ArrayGet(arr.Heap, idx)
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		t.frame().Regs[reg] = v

	case bytecode.OpMovToLocalOffset:
		reg, off, err := readRegOffset(r)
		if err != nil {
			return err
		}
		idx := t.frame().Base + int(off)
		if idx < 0 || idx >= len(t.Stack) {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrOutOfRange, "local slot %d out of range", off)))
		}
		t.Stack[idx] = t.frame().Regs[reg]

	case bytecode.OpMovToStaticIndex:
		reg, off, err := readRegOffset(r)
		if err != nil {
			return err
		}
		vm.ensureGlobal(int(off))
		vm.Globals[off] = t.frame().Regs[reg]

	case bytecode.OpMovToMemberIndex:
		reg, objReg, idx, err := readRegRegOffset(r)
		if err != nil {
			return err
		}
		obj := t.frame().Regs[objReg]
		if obj.Kind != KindHeapPointer {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrNullReference, "member store on non-object value")))
		}
		if err := vm.Heap.SetMemberByIndex(obj.Heap, int(idx), t.frame().Regs[reg]); err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}

	case bytecode.OpMovToMemberHash:
		reg, objReg, hash, err := readRegRegHash(r)
		if err != nil {
			return err
		}
		obj := t.frame().Regs[objReg]
		if obj.Kind != KindHeapPointer {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrNullReference, "member store on non-object value")))
		}
		if err := vm.Heap.SetMemberByHash(obj.Heap, hash, t.frame().Regs[reg]); err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}

	case bytecode.OpMovToArrayElem:
		reg, arrReg, idxReg, err := readRegRegReg(r)
		if err != nil {
			return err
		}
		arr := t.frame().Regs[arrReg]
		if arr.Kind != KindHeapPointer {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrNullReference, "index store on non-array value")))
		}
		idx, err := indexFromValue(t.frame().Regs[idxReg])
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		if err := vm.Heap.ArraySet(arr.Heap, idx, t.frame().Regs[reg]); err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}

	case bytecode.OpMovReg:
		src, dst, err := readRegReg(r)
		if err != nil {
			return err
		}
		t.frame().Regs[dst] = t.frame().Regs[src]

	case bytecode.OpHasMemHash:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		hash, err := r.ReadHash()
		if err != nil {
			return err
		}
		obj := t.frame().Regs[reg]
		found := obj.Kind == KindHeapPointer && vm.Heap.HasMemberHash(obj.Heap, hash)
		t.frame().Regs[reg] = Bool(found)

	case bytecode.OpPush:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		t.Stack = append(t.Stack, t.frame().Regs[reg])

	case bytecode.OpPop:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		if len(t.Stack) == 0 {
			return newRuntimeError(ErrOutOfRange, "pop from empty stack")
		}
		t.frame().Regs[reg] = t.Stack[len(t.Stack)-1]
		t.Stack = t.Stack[:len(t.Stack)-1]

	case bytecode.OpPopN:
		n, err := r.ReadStackOffset()
		if err != nil {
			return err
		}
		if int(n) > len(t.Stack) {
			return newRuntimeError(ErrOutOfRange, "pop_n %d exceeds stack depth", n)
		}
		t.Stack = t.Stack[:len(t.Stack)-int(n)]

	case bytecode.OpCmp:
		a, b, err := readRegReg(r)
		if err != nil {
			return err
		}
		ord, err := Compare(t.frame().Regs[a], t.frame().Regs[b])
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		t.cmp = ord

	case bytecode.OpCmpZ:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		if falsy(t.frame().Regs[reg]) {
			t.cmp = Equal
		} else {
			t.cmp = Greater
		}

	case bytecode.OpJmp:
		addr, err := r.ReadAddr()
		if err != nil {
			return err
		}
		t.PC = int(addr)
		return nil

	case bytecode.OpJmpEq:
		addr, err := r.ReadAddr()
		if err != nil {
			return err
		}
		if t.cmp == Equal {
			t.PC = int(addr)
			return nil
		}

	case bytecode.OpJmpNeq:
		addr, err := r.ReadAddr()
		if err != nil {
			return err
		}
		if t.cmp != Equal {
			t.PC = int(addr)
			return nil
		}

	case bytecode.OpJmpGt:
		addr, err := r.ReadAddr()
		if err != nil {
			return err
		}
		if t.cmp == Greater {
			t.PC = int(addr)
			return nil
		}

	case bytecode.OpJmpGe:
		addr, err := r.ReadAddr()
		if err != nil {
			return err
		}
		if t.cmp == Greater || t.cmp == Equal {
			t.PC = int(addr)
			return nil
		}

	case bytecode.OpCall:
		calleeReg, err := r.ReadReg()
		if err != nil {
			return err
		}
		argCountByte, err := r.ReadByte()
		if err != nil {
			return err
		}
		argCount := int(argCountByte)
		if err := vm.sample(t); err != nil {
			return err
		}
		if err := vm.doCall(t, t.frame().Regs[calleeReg], argCount, r.Pos); err != nil {
			return err
		}
		return nil

	case bytecode.OpRet:
		if err := vm.sample(t); err != nil {
			return err
		}
		ret := t.frame().Regs[0]
		done := t.frame()
		t.Frames = t.Frames[:len(t.Frames)-1]
		t.Stack = t.Stack[:done.Base]
		if len(t.Frames) == 0 {
			t.Done = true
			return nil
		}
		t.frame().Regs[0] = ret
		t.PC = done.ReturnPC
		return nil

	case bytecode.OpBeginTry:
		addr, err := r.ReadAddr()
		if err != nil {
			return err
		}
		t.TryStack = append(t.TryStack, TryFrame{
			CatchAddr:  addr,
			StackDepth: len(t.Stack),
			FrameDepth: len(t.Frames) - 1,
		})

	case bytecode.OpEndTry:
		if len(t.TryStack) == 0 {
			return fmt.Errorf("vmrt: END_TRY with no matching BEGIN_TRY")
		}
		t.TryStack = t.TryStack[:len(t.TryStack)-1]

	case bytecode.OpThrow:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		if err := vm.raise(t, t.frame().Regs[reg]); err != nil {
			return err
		}
		return nil

	case bytecode.OpNew:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		id, err := r.ReadStaticID()
		if err != nil {
			return err
		}
		s, err := vm.static(int(id))
		if err != nil {
			return err
		}
		if err := vm.sample(t); err != nil {
			return err
		}
		handle := vm.Heap.NewInstance(s.Type.Name, s.Type.Members)
		vm.maybeCollect()
		t.frame().Regs[reg] = HeapPtr(handle)

	case bytecode.OpNewArray:
		reg, n, err := readRegOffset(r)
		if err != nil {
			return err
		}
		if err := vm.sample(t); err != nil {
			return err
		}
		handle := vm.Heap.NewArray(int(n))
		vm.maybeCollect()
		t.frame().Regs[reg] = HeapPtr(handle)

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
		a, b, err := readRegReg(r)
		if err != nil {
			return err
		}
		v, err := vm.arith(op, t.frame().Regs[a], t.frame().Regs[b])
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		t.frame().Regs[a] = v

	case bytecode.OpNeg:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		v := t.frame().Regs[reg]
		switch v.Kind {
		case KindI32:
			t.frame().Regs[reg] = I32(-v.AsI32())
		case KindI64:
			t.frame().Regs[reg] = I64(-v.AsI64())
		case KindF32:
			t.frame().Regs[reg] = F32(-v.AsF32())
		case KindF64:
			t.frame().Regs[reg] = F64(-v.AsF64())
		default:
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument, "cannot negate %s", v.Kind)))
		}

	case bytecode.OpBitNot:
		reg, err := r.ReadReg()
		if err != nil {
			return err
		}
		v := t.frame().Regs[reg]
		switch v.Kind {
		case KindI32:
			t.frame().Regs[reg] = I32(^v.AsI32())
		case KindI64:
			t.frame().Regs[reg] = I64(^v.AsI64())
		default:
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument, "cannot bitwise-not %s", v.Kind)))
		}

	default:
		return fmt.Errorf("vmrt: unimplemented opcode %s", op)
	}

	t.PC = r.Pos
	return nil
}

// sample checks the embedder cancellation flag at a suspension point
// (spec.md §5: "sampled at every suspension point"), turning a pending
// external error into a raised (catchable) exception.
func (vm *VM) sample(t *Thread) error {
	if err := t.takePending(); err != nil {
		return vm.raise(t, runtimeErrValue(vm.Heap, err))
	}
	return nil
}

// raise unwinds t to its nearest try-frame (spec.md §4.4) or returns an
// *UncaughtException if none remains.
func (vm *VM) raise(t *Thread, value Value) error {
	if n := len(t.TryStack); n > 0 {
		tf := t.TryStack[n-1]
		t.TryStack = t.TryStack[:n-1]
		t.Frames = t.Frames[:tf.FrameDepth+1]
		t.Stack = t.Stack[:tf.StackDepth]
		t.frame().Regs[0] = value
		t.PC = int(tf.CatchAddr)
		return nil
	}
	return &UncaughtException{Value: value}
}

func runtimeErrValue(h *Heap, err error) Value {
	return HeapPtr(h.NewString(err.Error()))
}

func (vm *VM) doCall(t *Thread, callee Value, argCount int, returnPC int) error {
	switch callee.Kind {
	case KindFunction:
		variadic := callee.Func.Flags&bytecode.FuncFlagVariadic != 0
		if !variadic && argCount != int(callee.Func.ArgCount) {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument,
				"expected %d argument(s), got %d", callee.Func.ArgCount, argCount)))
		}
		base := len(t.Stack) - argCount
		if base < 0 {
			return fmt.Errorf("vmrt: CALL argument count exceeds operand stack depth")
		}
		t.Frames = append(t.Frames, &CallFrame{Base: base, ReturnPC: returnPC})
		t.PC = int(callee.Func.Addr)
		return nil
	case KindHeapPointer:
		// A closure value is the captured-environment heap object
		// internal/emit's buildClosureEnv builds, with the function
		// descriptor at member index 0 ("__fn"). The call site never
		// pushes the environment as an explicit argument (BuildCallExpr
		// only pushes n.Args), so CALL inserts it as the hidden slot-0
		// local the callee's body claimed, ahead of the explicit ones.
		fnVal, err := vm.Heap.MemberByIndex(callee.Heap, 0)
		if err != nil {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument, "value is not callable")))
		}
		if fnVal.Kind != KindFunction {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument, "value is not callable")))
		}
		variadic := fnVal.Func.Flags&bytecode.FuncFlagVariadic != 0
		if !variadic && argCount+1 != int(fnVal.Func.ArgCount) {
			return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument,
				"expected %d argument(s), got %d", fnVal.Func.ArgCount, argCount+1)))
		}
		l := len(t.Stack)
		base := l - argCount
		if base < 0 {
			return fmt.Errorf("vmrt: CALL argument count exceeds operand stack depth")
		}
		t.Stack = append(t.Stack, Value{})
		copy(t.Stack[base+1:], t.Stack[base:l])
		t.Stack[base] = callee
		t.Frames = append(t.Frames, &CallFrame{Base: base, ReturnPC: returnPC})
		t.PC = int(fnVal.Func.Addr)
		return nil
	case KindNativeFunction:
		base := len(t.Stack) - argCount
		if base < 0 {
			return fmt.Errorf("vmrt: CALL argument count exceeds operand stack depth")
		}
		args := append([]Value(nil), t.Stack[base:]...)
		t.Stack = t.Stack[:base]
		p := &Params{VM: vm, Thread: t, Args: args}
		if err := callee.Native.Fn(p); err != nil {
			t.PC = returnPC
			return vm.raise(t, runtimeErrValue(vm.Heap, err))
		}
		t.frame().Regs[0] = p.Result
		t.PC = returnPC
		return nil
	default:
		return vm.raise(t, runtimeErrValue(vm.Heap, newRuntimeError(ErrInvalidArgument, "%s is not callable", callee.Kind)))
	}
}

// arith applies spec.md §4.4's numeric promotion ladder to a binary
// arithmetic opcode. ADD additionally accepts two heap strings
// (Heap.Concat) as an enrichment beyond the literal spec text (see
// objects.go).
func (vm *VM) arith(op bytecode.Opcode, a, b Value) (Value, error) {
	if op == bytecode.OpAdd && a.Kind == KindHeapPointer && b.Kind == KindHeapPointer {
		if handle, ok := vm.Heap.Concat(a.Heap, b.Heap); ok {
			return HeapPtr(handle), nil
		}
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return Value{}, newRuntimeError(ErrInvalidArgument, "%s is not a numeric operand for %s", mismatchKind(a, b), op)
	}
	wide := promote(a.Kind, b.Kind)
	if wide == KindI32 || wide == KindI64 {
		x, y := a.asInt(), b.asInt()
		var v int64
		switch op {
		case bytecode.OpAdd:
			v = x + y
		case bytecode.OpSub:
			v = x - y
		case bytecode.OpMul:
			v = x * y
		case bytecode.OpDiv:
			if y == 0 {
				return Value{}, newRuntimeError(ErrDivisionByZero, "integer division by zero")
			}
			v = x / y
		case bytecode.OpMod:
			if y == 0 {
				return Value{}, newRuntimeError(ErrDivisionByZero, "integer modulo by zero")
			}
			v = x % y
		}
		if wide == KindI32 {
			return I32(int32(v)), nil
		}
		return I64(v), nil
	}
	x, y := a.asFloat(), b.asFloat()
	var v float64
	switch op {
	case bytecode.OpAdd:
		v = x + y
	case bytecode.OpSub:
		v = x - y
	case bytecode.OpMul:
		v = x * y
	case bytecode.OpDiv:
		if y == 0 {
			return Value{}, newRuntimeError(ErrDivisionByZero, "floating-point division by zero")
		}
		v = x / y
	case bytecode.OpMod:
		if y == 0 {
			return Value{}, newRuntimeError(ErrDivisionByZero, "floating-point modulo by zero")
		}
		v = math.Mod(x, y)
	}
	if wide == KindF32 {
		return F32(float32(v)), nil
	}
	return F64(v), nil
}

func mismatchKind(a, b Value) Kind {
	if !a.IsNumeric() {
		return a.Kind
	}
	return b.Kind
}

func indexFromValue(v Value) (int, error) {
	if !v.IsNumeric() {
		return 0, newRuntimeError(ErrInvalidArgument, "array index must be numeric, got %s", v.Kind)
	}
	return int(v.asInt()), nil
}

func (vm *VM) static(id int) (*bytecode.StaticObject, error) {
	if id < 0 || id >= len(vm.Statics) {
		return nil, fmt.Errorf("vmrt: static id %d out of range", id)
	}
	return &vm.Statics[id], nil
}

func (vm *VM) staticString(id int) (string, error) {
	s, err := vm.static(id)
	if err != nil {
		return "", err
	}
	return s.Str, nil
}

func (vm *VM) typeInfo(id int) (HeapHandle, error) {
	if h, ok := vm.typeInfoCache[id]; ok {
		return h, nil
	}
	s, err := vm.static(id)
	if err != nil {
		return HeapHandle{}, err
	}
	h := vm.Heap.NewTypeInfo(s.Type.Name, s.Type.Members)
	vm.typeInfoCache[id] = h
	return h, nil
}

func readRegI32(r *bytecode.Reader) (bytecode.Register, int32, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return 0, 0, err
	}
	v, err := r.ReadI32()
	return reg, v, err
}

func readRegOffset(r *bytecode.Reader) (bytecode.Register, int16, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return 0, 0, err
	}
	off, err := r.ReadStackOffset()
	return reg, off, err
}

func readRegReg(r *bytecode.Reader) (bytecode.Register, bytecode.Register, error) {
	a, err := r.ReadReg()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.ReadReg()
	return a, b, err
}

func readRegRegOffset(r *bytecode.Reader) (bytecode.Register, bytecode.Register, int16, error) {
	reg, objReg, err := readRegReg(r)
	if err != nil {
		return 0, 0, 0, err
	}
	off, err := r.ReadStackOffset()
	return reg, objReg, off, err
}

func readRegRegHash(r *bytecode.Reader) (bytecode.Register, bytecode.Register, uint32, error) {
	reg, objReg, err := readRegReg(r)
	if err != nil {
		return 0, 0, 0, err
	}
	hash, err := r.ReadHash()
	return reg, objReg, hash, err
}

func readRegRegReg(r *bytecode.Reader) (bytecode.Register, bytecode.Register, bytecode.Register, error) {
	reg, a, err := readRegReg(r)
	if err != nil {
		return 0, 0, 0, err
	}
	b, err := r.ReadReg()
	return reg, a, b, err
}
