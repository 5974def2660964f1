package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// FuncFlag bit-flags a function descriptor's calling convention
// (spec.md §6 function descriptor layout).
type FuncFlag uint8

const (
	FuncFlagVariadic FuncFlag = 1 << iota
	FuncFlagGenerator
	FuncFlagClosure
)

// FuncDescriptor is the fixed-size payload of a LOAD_FUNC static slot.
type FuncDescriptor struct {
	Addr     uint32
	ArgCount uint8
	Flags    FuncFlag
}

// TypeDescriptor is the payload of a LOAD_TYPE static slot: a type name
// plus its ordered member names (spec.md §6, §4.5 prototype shape).
type TypeDescriptor struct {
	Name    string
	Members []string
}

// encoding/binary is the justified stdlib substitute for this fixed,
// tightly-packed little-endian layout: no parser in the examples pack
// (funbit, protobuf's own wire format) matches a bespoke byte-for-byte
// register-machine encoding like this one, and reinventing one on top of
// a third-party bit-packing DSL would only add indirection.
var order = binary.LittleEndian

// Writer appends encoded instruction operands to an in-memory buffer,
// matching the field widths spec.md §6 fixes for each operand kind.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the buffer written so far.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

func (w *Writer) WriteOpcode(op Opcode) { w.buf.WriteByte(byte(op)) }

func (w *Writer) WriteByte(b byte) { w.buf.WriteByte(b) }

// WriteRaw appends already-encoded bytes verbatim, used by internal/emit
// to splice a pre-sized leaf's bytes into the final stream.
func (w *Writer) WriteRaw(b []byte) { w.buf.Write(b) }

// WriteReg writes a single register reference (spec.md §6: 1 byte).
func (w *Writer) WriteReg(reg Register) { w.buf.WriteByte(byte(reg)) }

// WriteStackOffset writes an in-function stack offset or absolute static
// index (spec.md §6: 2 bytes).
func (w *Writer) WriteStackOffset(v int16) {
	var b [2]byte
	order.PutUint16(b[:], uint16(v))
	w.buf.Write(b[:])
}

// WriteStaticID writes a static-object table id (spec.md §6: 2 bytes).
func (w *Writer) WriteStaticID(id uint16) {
	var b [2]byte
	order.PutUint16(b[:], id)
	w.buf.Write(b[:])
}

// WriteAddr writes a bytecode address (spec.md §6: 4 bytes).
func (w *Writer) WriteAddr(addr uint32) {
	var b [4]byte
	order.PutUint32(b[:], addr)
	w.buf.Write(b[:])
}

// WriteHash writes an FNV-1 member-name hash (spec.md §6: 4 bytes).
func (w *Writer) WriteHash(h uint32) {
	var b [4]byte
	order.PutUint32(b[:], h)
	w.buf.Write(b[:])
}

func (w *Writer) WriteI32(v int32) {
	var b [4]byte
	order.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *Writer) WriteI64(v int64) {
	var b [8]byte
	order.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

func (w *Writer) WriteF32(v float32) {
	var b [4]byte
	order.PutUint32(b[:], math.Float32bits(v))
	w.buf.Write(b[:])
}

func (w *Writer) WriteF64(v float64) {
	var b [8]byte
	order.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

// WriteString writes a u32 length prefix followed by raw UTF-8 bytes, with
// no terminator (spec.md §6).
func (w *Writer) WriteString(s string) {
	var b [4]byte
	order.PutUint32(b[:], uint32(len(s)))
	w.buf.Write(b[:])
	w.buf.WriteString(s)
}

// WriteFuncDescriptor writes a function descriptor: u32 address, u8
// arg-count, u8 flags (spec.md §6).
func (w *Writer) WriteFuncDescriptor(d FuncDescriptor) {
	w.WriteAddr(d.Addr)
	w.buf.WriteByte(d.ArgCount)
	w.buf.WriteByte(byte(d.Flags))
}

// writeShortString writes a u16 length prefix followed by raw UTF-8 bytes,
// the narrower width spec.md §6 uses inside type descriptors.
func (w *Writer) writeShortString(s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("bytecode: string %q exceeds u16 length limit", s)
	}
	var b [2]byte
	order.PutUint16(b[:], uint16(len(s)))
	w.buf.Write(b[:])
	w.buf.WriteString(s)
	return nil
}

// WriteTypeDescriptor writes a type descriptor: u16 member-count, u16-
// length-prefixed type name, then one u16-length-prefixed member name per
// member (spec.md §6).
func (w *Writer) WriteTypeDescriptor(d TypeDescriptor) error {
	if len(d.Members) > math.MaxUint16 {
		return fmt.Errorf("bytecode: type %q has more than 65535 members", d.Name)
	}
	var b [2]byte
	order.PutUint16(b[:], uint16(len(d.Members)))
	w.buf.Write(b[:])
	if err := w.writeShortString(d.Name); err != nil {
		return err
	}
	for _, m := range d.Members {
		if err := w.writeShortString(m); err != nil {
			return err
		}
	}
	return nil
}
