package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
)

// runDisasm implements `ace disasm <file.acec>`: a listing of the static-
// object prelude followed by one line per instruction, address-prefixed so
// a JMP target is easy to find by eye. Grounded on the teacher's own
// decompiler use of a name-lookup table plus a linear instruction walk;
// go-humanize renders the file and static-table sizes the way the teacher
// formats byte counts for its own CLI summaries, rather than printing raw
// integers.
func runDisasm(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ace disasm <file.acec>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	file, err := bytecode.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	fmt.Printf("; %s (%s, %d static object(s), %s code)\n",
		args[0], humanize.Bytes(uint64(len(data))), len(file.Statics), humanize.Bytes(uint64(len(file.Code))))

	for i, s := range file.Statics {
		fmt.Printf(";  [%d] %s\n", i, describeStatic(s))
	}

	return disassemble(file.Code)
}

func describeStatic(s bytecode.StaticObject) string {
	switch s.Kind {
	case bytecode.StaticString:
		return fmt.Sprintf("string %q", s.Str)
	case bytecode.StaticAddr:
		return fmt.Sprintf("addr 0x%04x", s.Addr)
	case bytecode.StaticFunc:
		return fmt.Sprintf("func entry=0x%04x argc=%d flags=%d", s.Func.Addr, s.Func.ArgCount, s.Func.Flags)
	case bytecode.StaticType:
		return fmt.Sprintf("type %s%v", s.Type.Name, s.Type.Members)
	default:
		return "unknown"
	}
}

// disassemble walks code instruction by instruction. It mirrors the exact
// operand shapes internal/vmrt's dispatch loop reads for each opcode, so
// a listing always matches what the VM will actually execute.
func disassemble(code []byte) error {
	r := bytecode.NewReader(code)
	for !r.AtEnd() {
		addr := r.Pos
		op, err := r.ReadOpcode()
		if err != nil {
			return fmt.Errorf("offset %d: %w", addr, err)
		}

		var operands string
		switch op {
		case bytecode.OpLoadI32:
			operands, err = fmtRegI32(r)
		case bytecode.OpLoadI64:
			operands, err = fmtRegI64(r)
		case bytecode.OpLoadF32:
			operands, err = fmtRegF32(r)
		case bytecode.OpLoadF64:
			operands, err = fmtRegF64(r)
		case bytecode.OpLoadString, bytecode.OpLoadAddr, bytecode.OpLoadFunc, bytecode.OpLoadType:
			operands, err = fmtRegStaticID(r)
		case bytecode.OpLoadNull, bytecode.OpLoadTrue, bytecode.OpLoadFalse,
			bytecode.OpPush, bytecode.OpPop, bytecode.OpCmpZ, bytecode.OpThrow,
			bytecode.OpNeg, bytecode.OpBitNot, bytecode.OpHasMemHash:
			operands, err = fmtOneOperand(r, op)
		case bytecode.OpLoadLocalOffset, bytecode.OpMovToLocalOffset,
			bytecode.OpLoadStaticIndex, bytecode.OpMovToStaticIndex:
			operands, err = fmtRegOffset(r)
		case bytecode.OpLoadMemberIndex, bytecode.OpMovToMemberIndex:
			operands, err = fmtRegRegOffset(r)
		case bytecode.OpLoadMemberHash, bytecode.OpMovToMemberHash:
			operands, err = fmtRegRegHash(r)
		case bytecode.OpLoadArrayElem, bytecode.OpMovToArrayElem:
			operands, err = fmtRegRegReg(r)
		case bytecode.OpMovReg, bytecode.OpCmp,
			bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod:
			operands, err = fmtRegReg(r)
		case bytecode.OpPopN:
			operands, err = fmtOffsetOnly(r)
		case bytecode.OpJmp, bytecode.OpJmpEq, bytecode.OpJmpNeq, bytecode.OpJmpGt, bytecode.OpJmpGe, bytecode.OpBeginTry:
			operands, err = fmtAddrOnly(r)
		case bytecode.OpCall:
			operands, err = fmtCall(r)
		case bytecode.OpNew:
			operands, err = fmtRegStaticID(r)
		case bytecode.OpNewArray:
			operands, err = fmtRegOffset(r)
		case bytecode.OpEndTry, bytecode.OpRet, bytecode.OpExit:
			// no operands
		default:
			return fmt.Errorf("offset %d: unrecognized opcode %s", addr, op)
		}
		if err != nil {
			return fmt.Errorf("offset %d (%s): %w", addr, op, err)
		}

		fmt.Printf("%06d  %-14s %s\n", addr, op, operands)
	}
	return nil
}

func fmtRegI32(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	v, err := r.ReadI32()
	return fmt.Sprintf("r%d, %d", reg, v), err
}

func fmtRegI64(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	v, err := r.ReadI64()
	return fmt.Sprintf("r%d, %d", reg, v), err
}

func fmtRegF32(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	v, err := r.ReadF32()
	return fmt.Sprintf("r%d, %g", reg, v), err
}

func fmtRegF64(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	v, err := r.ReadF64()
	return fmt.Sprintf("r%d, %g", reg, v), err
}

func fmtRegStaticID(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	id, err := r.ReadStaticID()
	return fmt.Sprintf("r%d, #%d", reg, id), err
}

// fmtOneOperand covers every opcode whose sole operand is a register,
// except HAS_MEM_HASH whose second operand is a hash, not captured by
// ReadReg alone.
func fmtOneOperand(r *bytecode.Reader, op bytecode.Opcode) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	if op == bytecode.OpHasMemHash {
		hash, err := r.ReadHash()
		return fmt.Sprintf("r%d, 0x%08x", reg, hash), err
	}
	return fmt.Sprintf("r%d", reg), nil
}

func fmtRegOffset(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	off, err := r.ReadStackOffset()
	return fmt.Sprintf("r%d, %d", reg, off), err
}

func fmtRegRegOffset(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	objReg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	off, err := r.ReadStackOffset()
	return fmt.Sprintf("r%d, r%d, %d", reg, objReg, off), err
}

func fmtRegRegHash(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	objReg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	hash, err := r.ReadHash()
	return fmt.Sprintf("r%d, r%d, 0x%08x", reg, objReg, hash), err
}

func fmtRegRegReg(r *bytecode.Reader) (string, error) {
	a, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	b, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	c, err := r.ReadReg()
	return fmt.Sprintf("r%d, r%d, r%d", a, b, c), err
}

func fmtRegReg(r *bytecode.Reader) (string, error) {
	a, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	b, err := r.ReadReg()
	return fmt.Sprintf("r%d, r%d", a, b), err
}

func fmtOffsetOnly(r *bytecode.Reader) (string, error) {
	off, err := r.ReadStackOffset()
	return fmt.Sprintf("%d", off), err
}

func fmtAddrOnly(r *bytecode.Reader) (string, error) {
	addr, err := r.ReadAddr()
	return fmt.Sprintf("0x%06x", addr), err
}

func fmtCall(r *bytecode.Reader) (string, error) {
	reg, err := r.ReadReg()
	if err != nil {
		return "", err
	}
	argc, err := r.ReadByte()
	return fmt.Sprintf("r%d, argc=%d", reg, argc), err
}
