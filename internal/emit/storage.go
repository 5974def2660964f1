package emit

import (
	"fmt"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
)

// Operation is the load/store half of a storage operation (spec.md §3.9).
type Operation int

const (
	OpLoad Operation = iota
	OpStore
)

// Method is the local/static/array/member half of a storage operation.
type Method int

const (
	MethodLocal Method = iota
	MethodStatic
	MethodArray
	MethodMember
)

// Strategy is the by-offset/by-index/by-hash/by-register half of a
// storage operation. By-register is this emitter's own addition beyond
// spec.md §3.9's named three, needed because an array element's index is
// a runtime value, never a compile-time constant the way a member's
// index or a static slot's index is.
type Strategy int

const (
	StrategyByOffset Strategy = iota
	StrategyByIndex
	StrategyByHash
	StrategyByRegister
)

// storageRule names the concrete opcode for one valid (Operation, Method,
// Strategy) combination. Combinations with no entry here are rejected by
// the builder's terminal methods (spec.md §3.9: "Static by-hash ... must
// be rejected as not implemented at build time"). Array only supports
// by-register, never by-index/by-offset/by-hash: an array's element
// index is always a runtime register value in this machine.
var storageRules = map[[3]int]bytecode.Opcode{
	{int(OpLoad), int(MethodLocal), int(StrategyByOffset)}:    bytecode.OpLoadLocalOffset,
	{int(OpLoad), int(MethodStatic), int(StrategyByIndex)}:    bytecode.OpLoadStaticIndex,
	{int(OpLoad), int(MethodMember), int(StrategyByIndex)}:    bytecode.OpLoadMemberIndex,
	{int(OpLoad), int(MethodMember), int(StrategyByHash)}:     bytecode.OpLoadMemberHash,
	{int(OpLoad), int(MethodArray), int(StrategyByRegister)}:  bytecode.OpLoadArrayElem,
	{int(OpStore), int(MethodLocal), int(StrategyByOffset)}:   bytecode.OpMovToLocalOffset,
	{int(OpStore), int(MethodStatic), int(StrategyByIndex)}:   bytecode.OpMovToStaticIndex,
	{int(OpStore), int(MethodMember), int(StrategyByIndex)}:   bytecode.OpMovToMemberIndex,
	{int(OpStore), int(MethodMember), int(StrategyByHash)}:    bytecode.OpMovToMemberHash,
	{int(OpStore), int(MethodArray), int(StrategyByRegister)}: bytecode.OpMovToArrayElem,
}

func (o Operation) String() string {
	if o == OpLoad {
		return "load"
	}
	return "store"
}

func (m Method) String() string {
	switch m {
	case MethodLocal:
		return "local"
	case MethodStatic:
		return "static"
	case MethodArray:
		return "array"
	case MethodMember:
		return "member"
	default:
		return "unknown"
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyByOffset:
		return "by-offset"
	case StrategyByIndex:
		return "by-index"
	case StrategyByHash:
		return "by-hash"
	case StrategyByRegister:
		return "by-register"
	default:
		return "unknown"
	}
}

// StorageBuilder is the fluent product-type builder of spec.md §3.9:
// GetBuilder().Load(dst)|.Store(src) -> .Local()|.Static()|.Array(reg)|
// .Member(reg) -> .ByIndex(i)|.ByOffset(o)|.ByHash(h).
type StorageBuilder struct {
	op     Operation
	reg    bytecode.Register
	method Method
	objReg bytecode.Register
}

// GetBuilder starts a new storage-operation builder.
func GetBuilder() *StorageBuilder { return &StorageBuilder{} }

// Load selects the load operation, reading into dst.
func (b *StorageBuilder) Load(dst bytecode.Register) *StorageBuilder {
	b.op, b.reg = OpLoad, dst
	return b
}

// Store selects the store operation, writing from src.
func (b *StorageBuilder) Store(src bytecode.Register) *StorageBuilder {
	b.op, b.reg = OpStore, src
	return b
}

// Local selects the local-stack-slot method.
func (b *StorageBuilder) Local() *StorageBuilder {
	b.method = MethodLocal
	return b
}

// Static selects the absolute-global-slot method.
func (b *StorageBuilder) Static() *StorageBuilder {
	b.method = MethodStatic
	return b
}

// Array selects the array-element method, on the array held in reg.
func (b *StorageBuilder) Array(reg bytecode.Register) *StorageBuilder {
	b.method, b.objReg = MethodArray, reg
	return b
}

// Member selects the object-member method, on the object held in reg.
func (b *StorageBuilder) Member(reg bytecode.Register) *StorageBuilder {
	b.method, b.objReg = MethodMember, reg
	return b
}

func (b *StorageBuilder) resolve(strategy Strategy) (bytecode.Opcode, error) {
	op, ok := storageRules[[3]int{int(b.op), int(b.method), int(strategy)}]
	if !ok {
		return 0, fmt.Errorf("emit: %s %s %s is not implemented", b.op, b.method, strategy)
	}
	return op, nil
}

// ByOffset terminates the builder with the by-offset strategy (in-
// function stack slot relative to the frame base).
func (b *StorageBuilder) ByOffset(offset int16) (Buildable, error) {
	op, err := b.resolve(StrategyByOffset)
	if err != nil {
		return nil, err
	}
	return &storageBuildable{opcode: op, reg: b.reg, objReg: b.objReg, method: b.method, offset: offset}, nil
}

// ByIndex terminates the builder with the by-index strategy (absolute
// static slot or compile-time-known member index).
func (b *StorageBuilder) ByIndex(index int) (Buildable, error) {
	op, err := b.resolve(StrategyByIndex)
	if err != nil {
		return nil, err
	}
	return &storageBuildable{opcode: op, reg: b.reg, objReg: b.objReg, method: b.method, offset: int16(index)}, nil
}

// ByHash terminates the builder with the by-hash strategy (runtime
// member-name hash probe).
func (b *StorageBuilder) ByHash(hash uint32) (Buildable, error) {
	op, err := b.resolve(StrategyByHash)
	if err != nil {
		return nil, err
	}
	return &storageBuildable{opcode: op, reg: b.reg, objReg: b.objReg, method: b.method, hash: hash}, nil
}

// ByRegister terminates the builder with the by-register strategy (a
// runtime index held in a register — the only valid array-element
// strategy).
func (b *StorageBuilder) ByRegister(index bytecode.Register) (Buildable, error) {
	op, err := b.resolve(StrategyByRegister)
	if err != nil {
		return nil, err
	}
	return &storageBuildable{opcode: op, reg: b.reg, objReg: b.objReg, method: b.method, idxReg: index}, nil
}

// storageBuildable is the fixed-size, label-free leaf a StorageBuilder
// terminal method produces.
type storageBuildable struct {
	opcode bytecode.Opcode
	reg    bytecode.Register
	objReg bytecode.Register
	method Method
	offset int16
	hash   uint32
	idxReg bytecode.Register
}

func (s *storageBuildable) Size() int {
	switch s.method {
	case MethodLocal, MethodStatic:
		return 1 + 1 + 2 // opcode + reg + offset/index
	case MethodArray:
		return 1 + 1 + 1 + 1 // opcode + reg + objReg + idxReg
	case MethodMember:
		if s.opcode == bytecode.OpLoadMemberHash || s.opcode == bytecode.OpMovToMemberHash {
			return 1 + 1 + 1 + 4 // opcode + reg + objReg + hash
		}
		return 1 + 1 + 1 + 2 // opcode + reg + objReg + index
	default:
		return 1 + 1 + 2
	}
}

func (s *storageBuildable) collectLabels(int, map[LabelID]int) {}

func (s *storageBuildable) emit(w *bytecode.Writer, _ map[LabelID]int) {
	w.WriteOpcode(s.opcode)
	w.WriteReg(s.reg)
	switch s.method {
	case MethodLocal, MethodStatic:
		w.WriteStackOffset(s.offset)
	case MethodArray:
		w.WriteReg(s.objReg)
		w.WriteReg(s.idxReg)
	case MethodMember:
		w.WriteReg(s.objReg)
		if s.opcode == bytecode.OpLoadMemberHash || s.opcode == bytecode.OpMovToMemberHash {
			w.WriteHash(s.hash)
		} else {
			w.WriteStackOffset(s.offset)
		}
	}
}
