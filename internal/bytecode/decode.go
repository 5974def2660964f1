package bytecode

import (
	"fmt"
	"math"
)

// Reader parses encoded instruction operands out of a byte slice,
// tracking a cursor (spec.md §6). Used by both internal/vmrt's dispatch
// loop and cmd/ace's decompile listing.
type Reader struct {
	Data []byte
	Pos  int
}

// NewReader wraps data for sequential reads starting at offset 0.
func NewReader(data []byte) *Reader { return &Reader{Data: data} }

// AtEnd reports whether every byte has been consumed.
func (r *Reader) AtEnd() bool { return r.Pos >= len(r.Data) }

func (r *Reader) need(n int) error {
	if r.Pos+n > len(r.Data) {
		return fmt.Errorf("bytecode: truncated stream at offset %d, need %d more bytes", r.Pos, n)
	}
	return nil
}

func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.Data[r.Pos]
	r.Pos++
	return b, nil
}

func (r *Reader) ReadOpcode() (Opcode, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	op := Opcode(b)
	if !op.IsValid() {
		return 0, fmt.Errorf("bytecode: unknown opcode byte 0x%02x at offset %d", b, r.Pos-1)
	}
	return op, nil
}

func (r *Reader) ReadReg() (Register, error) {
	b, err := r.ReadByte()
	return Register(b), err
}

func (r *Reader) ReadStackOffset() (int16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := int16(order.Uint16(r.Data[r.Pos:]))
	r.Pos += 2
	return v, nil
}

func (r *Reader) ReadStaticID() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := order.Uint16(r.Data[r.Pos:])
	r.Pos += 2
	return v, nil
}

func (r *Reader) ReadAddr() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := order.Uint32(r.Data[r.Pos:])
	r.Pos += 4
	return v, nil
}

func (r *Reader) ReadHash() (uint32, error) {
	return r.ReadAddr()
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadAddr()
	return int32(v), err
}

func (r *Reader) ReadI64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(order.Uint64(r.Data[r.Pos:]))
	r.Pos += 8
	return v, nil
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadAddr()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadI64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadAddr()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.Data[r.Pos : r.Pos+int(n)])
	r.Pos += int(n)
	return s, nil
}

func (r *Reader) readShortString() (string, error) {
	n, err := r.ReadStaticID()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.Data[r.Pos : r.Pos+int(n)])
	r.Pos += int(n)
	return s, nil
}

func (r *Reader) ReadFuncDescriptor() (FuncDescriptor, error) {
	addr, err := r.ReadAddr()
	if err != nil {
		return FuncDescriptor{}, err
	}
	argCount, err := r.ReadByte()
	if err != nil {
		return FuncDescriptor{}, err
	}
	flags, err := r.ReadByte()
	if err != nil {
		return FuncDescriptor{}, err
	}
	return FuncDescriptor{Addr: addr, ArgCount: argCount, Flags: FuncFlag(flags)}, nil
}

func (r *Reader) ReadTypeDescriptor() (TypeDescriptor, error) {
	memberCount, err := r.ReadStaticID()
	if err != nil {
		return TypeDescriptor{}, err
	}
	name, err := r.readShortString()
	if err != nil {
		return TypeDescriptor{}, err
	}
	members := make([]string, memberCount)
	for i := range members {
		members[i], err = r.readShortString()
		if err != nil {
			return TypeDescriptor{}, err
		}
	}
	return TypeDescriptor{Name: name, Members: members}, nil
}
