// Package bytecode defines the Ace register machine's instruction set and
// its wire encoding: a byte-for-byte tightly packed little-endian format
// (spec.md §6), independent of how internal/emit builds a stream or how
// internal/vmrt executes one.
//
// Grounded on the teacher's internal/vm/opcodes.go for the "byte enum plus
// a name lookup table, used by both the compiler and the disassembler"
// shape; the opcode set itself is redrawn from spec.md §4.4's register
// machine (load/move/jump/call/try/arithmetic families) instead of the
// teacher's stack machine (OP_CONST/OP_CLOSURE/OP_GET_UPVALUE/...), since
// the two machines have no instruction-for-instruction correspondence.
package bytecode

// Register is a register-file slot index (spec.md §4.4: register file of
// at least 16 slots, one byte on the wire).
type Register byte

// NumRegisters is the minimum register file size spec.md §4.4 requires.
const NumRegisters = 16

// Opcode is a single register-machine instruction's tag byte.
type Opcode byte

const (
	// Load family: push a value into the current register without
	// touching the operand stack.
	OpLoadI32 Opcode = iota
	OpLoadI64
	OpLoadF32
	OpLoadF64
	OpLoadString      // static string by id
	OpLoadAddr        // static address by id (function entry point)
	OpLoadFunc        // static function descriptor by id
	OpLoadType        // static type descriptor by id
	OpLoadNull
	OpLoadTrue
	OpLoadFalse
	OpLoadLocalOffset // stack slot relative to frame base
	OpLoadStaticIndex // stack slot by absolute index (global)
	OpLoadMemberIndex // heap object member by compile-time index
	OpLoadMemberHash  // heap object member by runtime name hash
	OpLoadArrayElem   // array element by index register

	// Move family: write the current register's value somewhere other
	// than the register file.
	OpMovToLocalOffset
	OpMovToStaticIndex
	OpMovToMemberIndex
	OpMovToMemberHash
	OpMovToArrayElem
	OpMovReg // register to register

	// HAS_MEM_HASH: runtime duck-typing probe (spec.md §4.5), leaves a
	// Boolean in the destination register.
	OpHasMemHash

	// Stack control.
	OpPush
	OpPop
	OpPopN

	// Control flow: jumps read the compare-flags set by CMP/CMPZ.
	OpCmp
	OpCmpZ
	OpJmp
	OpJmpEq
	OpJmpNeq
	OpJmpGt
	OpJmpGe

	// Calls and returns.
	OpCall
	OpRet

	// Exception handling.
	OpBeginTry
	OpEndTry
	OpThrow

	// Object/array construction.
	OpNew
	OpNewArray

	// Arithmetic, all operating on the current register pair unless
	// otherwise noted by the emitted operands.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpBitNot

	// Program termination.
	OpExit

	opcodeCount
)

// Names maps every Opcode to its disassembly mnemonic, used by cmd/ace's
// decompile listing and, through Opcode.String, by internal/vmrt's
// dispatch error messages.
var Names = map[Opcode]string{
	OpLoadI32:         "LOAD_I32",
	OpLoadI64:         "LOAD_I64",
	OpLoadF32:         "LOAD_F32",
	OpLoadF64:         "LOAD_F64",
	OpLoadString:      "LOAD_STRING",
	OpLoadAddr:        "LOAD_ADDR",
	OpLoadFunc:        "LOAD_FUNC",
	OpLoadType:        "LOAD_TYPE",
	OpLoadNull:        "LOAD_NULL",
	OpLoadTrue:        "LOAD_TRUE",
	OpLoadFalse:       "LOAD_FALSE",
	OpLoadLocalOffset: "LOAD_LOCAL",
	OpLoadStaticIndex: "LOAD_STATIC",
	OpLoadMemberIndex: "LOAD_MEM_IDX",
	OpLoadMemberHash:  "LOAD_MEM_HASH",
	OpLoadArrayElem:   "LOAD_ARR_ELEM",
	OpMovToLocalOffset: "MOV_LOCAL",
	OpMovToStaticIndex: "MOV_STATIC",
	OpMovToMemberIndex: "MOV_MEM_IDX",
	OpMovToMemberHash:  "MOV_MEM_HASH",
	OpMovToArrayElem:   "MOV_ARR_ELEM",
	OpMovReg:           "MOV_REG",
	OpHasMemHash:       "HAS_MEM_HASH",
	OpPush:             "PUSH",
	OpPop:              "POP",
	OpPopN:             "POP_N",
	OpCmp:              "CMP",
	OpCmpZ:             "CMPZ",
	OpJmp:              "JMP",
	OpJmpEq:            "JE",
	OpJmpNeq:           "JNE",
	OpJmpGt:            "JG",
	OpJmpGe:            "JGE",
	OpCall:             "CALL",
	OpRet:              "RET",
	OpBeginTry:         "BEGIN_TRY",
	OpEndTry:           "END_TRY",
	OpThrow:            "THROW",
	OpNew:              "NEW",
	OpNewArray:         "NEW_ARRAY",
	OpAdd:              "ADD",
	OpSub:              "SUB",
	OpMul:              "MUL",
	OpDiv:              "DIV",
	OpMod:              "MOD",
	OpNeg:              "NEG",
	OpBitNot:           "NOT",
	OpExit:             "EXIT",
}

func (op Opcode) String() string {
	if n, ok := Names[op]; ok {
		return n
	}
	return "UNKNOWN"
}

// IsValid reports whether op is a recognized opcode.
func (op Opcode) IsValid() bool { return op < opcodeCount }
