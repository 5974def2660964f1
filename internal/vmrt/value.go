// Package vmrt is the register-machine executor for bytecode.File programs
// (spec.md §4.4, §3.10-§3.11). Grounded on the teacher's internal/vm/vm.go
// for its overall executor shape — a CallFrame stack, a push/pop/peek
// operand stack with dynamic growth, and a step()-driven dispatch loop — but
// redrawn throughout: the teacher interprets a stack machine entangled with
// a tree-walking evaluator.Object model, upvalue-based closures and a
// persistent-map trait registry, where this package interprets the register
// machine internal/emit targets, with by-value closure environments and an
// arena-backed heap (see heap.go) instead of the teacher's doubly-linked
// object graph.
package vmrt

import (
	"fmt"
	"math"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
)

// Kind tags a Value's active variant (spec.md §3.10's exact tag set).
type Kind byte

const (
	KindNone Kind = iota
	KindI32
	KindI64
	KindF32
	KindF64
	KindBool
	KindValueRef
	KindHeapPointer
	KindFunction
	KindNativeFunction
	KindUserData
	KindAddress
	KindFunctionCallInfo
	KindTryCatchInfo
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindBool:
		return "bool"
	case KindValueRef:
		return "value-ref"
	case KindHeapPointer:
		return "heap-pointer"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native-function"
	case KindUserData:
		return "user-data"
	case KindAddress:
		return "address"
	case KindFunctionCallInfo:
		return "function-call-info"
	case KindTryCatchInfo:
		return "try-catch-info"
	default:
		return "unknown"
	}
}

// FuncRef is the payload of a KindFunction value: the same triple a
// bytecode.FuncDescriptor carries on the wire.
type FuncRef struct {
	Addr     uint32
	ArgCount uint8
	Flags    bytecode.FuncFlag
}

// NativeFunction is an embedder-registered function reachable from bytecode
// via CALL, per spec.md §6's native call bundle contract: it must write its
// result into Params.Result (CALL copies it into register 0 of the calling
// frame) or return a non-nil error, which CALL raises as a catchable
// exception, and must not retain Params.Args past return.
type NativeFunction struct {
	Name string
	Fn   func(p *Params) error
}

// FunctionCallInfo is the KindFunctionCallInfo payload: introspection data
// about the call a native function is currently running inside of (spec.md
// §3.10). Not produced by any bytecode instruction, and neither the
// dispatch loop nor Params carries one; CallInfo wraps one as a Value.
type FunctionCallInfo struct {
	Callee   FuncRef
	ArgCount int
}

// TryCatchInfo is the KindTryCatchInfo payload: a snapshot of a try-frame
// (spec.md §3.10, glossary "try-frame"), exposed to natives that want to
// inspect or (via the embedder cancellation hook) react to the thread's
// current exception-handling context.
type TryCatchInfo struct {
	CatchAddr  uint32
	StackDepth int
}

// Value is the VM's tagged-union runtime value (spec.md §3.10). Go has no
// native union, so one fixed struct carries every variant's payload; only
// the field(s) matching Kind are meaningful at any moment, mirroring the
// teacher's Value{Type, Data uint64, Obj} shape but widened to this
// machine's larger tag set.
type Value struct {
	Kind Kind

	bits uint64 // i32/i64/f32/f64 bits, bool 0/1, address

	Heap HeapHandle // heap-pointer / value-ref target

	Func   FuncRef
	Native *NativeFunction

	extra interface{} // user-data payload, *FunctionCallInfo, *TryCatchInfo
}

func Null() Value                  { return Value{Kind: KindNone} }
func I32(v int32) Value            { return Value{Kind: KindI32, bits: uint64(uint32(v))} }
func I64(v int64) Value            { return Value{Kind: KindI64, bits: uint64(v)} }
func F32(v float32) Value          { return Value{Kind: KindF32, bits: uint64(math.Float32bits(v))} }
func F64(v float64) Value          { return Value{Kind: KindF64, bits: math.Float64bits(v)} }
func Bool(v bool) Value {
	if v {
		return Value{Kind: KindBool, bits: 1}
	}
	return Value{Kind: KindBool, bits: 0}
}
func Addr(v uint32) Value          { return Value{Kind: KindAddress, bits: uint64(v)} }
func Func(ref FuncRef) Value       { return Value{Kind: KindFunction, Func: ref} }
func Native(nf *NativeFunction) Value {
	return Value{Kind: KindNativeFunction, Native: nf}
}
func HeapPtr(h HeapHandle) Value { return Value{Kind: KindHeapPointer, Heap: h} }
func ValueRef(h HeapHandle) Value { return Value{Kind: KindValueRef, Heap: h} }
func UserData(v interface{}) Value { return Value{Kind: KindUserData, extra: v} }
func CallInfo(ci *FunctionCallInfo) Value {
	return Value{Kind: KindFunctionCallInfo, extra: ci}
}
func CatchInfo(ti *TryCatchInfo) Value {
	return Value{Kind: KindTryCatchInfo, extra: ti}
}

func (v Value) IsNull() bool { return v.Kind == KindNone }

func (v Value) AsI32() int32    { return int32(uint32(v.bits)) }
func (v Value) AsI64() int64    { return int64(v.bits) }
func (v Value) AsF32() float32  { return math.Float32frombits(uint32(v.bits)) }
func (v Value) AsF64() float64  { return math.Float64frombits(v.bits) }
func (v Value) AsBool() bool    { return v.bits != 0 }
func (v Value) AsAddr() uint32  { return uint32(v.bits) }
func (v Value) UserDataValue() interface{} { return v.extra }
func (v Value) CallInfoValue() *FunctionCallInfo {
	ci, _ := v.extra.(*FunctionCallInfo)
	return ci
}
func (v Value) CatchInfoValue() *TryCatchInfo {
	ti, _ := v.extra.(*TryCatchInfo)
	return ti
}

// IsNumeric reports whether v holds one of the four numeric kinds.
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case KindI32, KindI64, KindF32, KindF64:
		return true
	default:
		return false
	}
}

// asFloat widens any numeric kind to float64, used by the comparison and
// arithmetic promotion ladder (spec.md §4.4: I32 < I64 < F32 < F64).
func (v Value) asFloat() float64 {
	switch v.Kind {
	case KindI32:
		return float64(v.AsI32())
	case KindI64:
		return float64(v.AsI64())
	case KindF32:
		return float64(v.AsF32())
	case KindF64:
		return v.AsF64()
	default:
		return 0
	}
}

func (v Value) asInt() int64 {
	switch v.Kind {
	case KindI32:
		return int64(v.AsI32())
	case KindI64:
		return v.AsI64()
	case KindF32:
		return int64(v.AsF32())
	case KindF64:
		return int64(v.AsF64())
	default:
		return 0
	}
}

// numericRank orders the four numeric kinds for promotion (spec.md §4.4).
func numericRank(k Kind) int {
	switch k {
	case KindI32:
		return 0
	case KindI64:
		return 1
	case KindF32:
		return 2
	case KindF64:
		return 3
	default:
		return -1
	}
}

// promote returns the wider of two numeric kinds, per I32 < I64 < F32 < F64.
func promote(a, b Kind) Kind {
	if numericRank(a) >= numericRank(b) {
		return a
	}
	return b
}

// falsy decides whether a value reads as "false" to CMPZ — the condition
// register of an if/while statement or a `not` operand (internal/emit's
// only consumers of CMPZ).
func falsy(v Value) bool {
	switch v.Kind {
	case KindNone:
		return true
	case KindBool:
		return !v.AsBool()
	case KindI32:
		return v.AsI32() == 0
	case KindI64:
		return v.AsI64() == 0
	case KindF32:
		return v.AsF32() == 0
	case KindF64:
		return v.AsF64() == 0
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "null"
	case KindI32:
		return fmt.Sprintf("%d", v.AsI32())
	case KindI64:
		return fmt.Sprintf("%d", v.AsI64())
	case KindF32:
		return fmt.Sprintf("%g", v.AsF32())
	case KindF64:
		return fmt.Sprintf("%g", v.AsF64())
	case KindBool:
		return fmt.Sprintf("%t", v.AsBool())
	case KindAddress:
		return fmt.Sprintf("@%d", v.AsAddr())
	case KindFunction:
		return fmt.Sprintf("<function %d/%d>", v.Func.Addr, v.Func.ArgCount)
	case KindNativeFunction:
		if v.Native != nil {
			return fmt.Sprintf("<native %s>", v.Native.Name)
		}
		return "<native>"
	case KindHeapPointer, KindValueRef:
		return fmt.Sprintf("<heap %d:%d>", v.Heap.Generation, v.Heap.Index)
	case KindUserData:
		return fmt.Sprintf("<user-data %v>", v.extra)
	case KindFunctionCallInfo:
		return "<call-info>"
	case KindTryCatchInfo:
		return "<try-catch-info>"
	default:
		return "<?>"
	}
}
