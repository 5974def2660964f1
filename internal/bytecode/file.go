package bytecode

import "fmt"

// StaticKind tags the payload variant of one static-object table slot
// (spec.md §6 prelude: "string/address/function/type").
type StaticKind byte

const (
	StaticString StaticKind = iota
	StaticAddr
	StaticFunc
	StaticType
)

// StaticObject is one entry of the static-object table emitted as the
// bytecode file's prelude, in id order (spec.md §6, §3.9 "static" storage
// method).
type StaticObject struct {
	Kind StaticKind
	Str  string
	Addr uint32
	Func FuncDescriptor
	Type TypeDescriptor
}

// File is a complete compiled bytecode unit: the static-object prelude
// plus the main instruction stream (spec.md §6). The main stream is
// expected to end with an OpExit instruction; File does not enforce this
// itself.
type File struct {
	Statics []StaticObject
	Code    []byte
}

// Encode serializes f to its on-disk byte layout: a u16 static-object
// count, each static object's tag byte plus payload in id order, then the
// raw main instruction stream verbatim.
func (f *File) Encode() ([]byte, error) {
	w := NewWriter()
	if len(f.Statics) > 1<<16-1 {
		return nil, fmt.Errorf("bytecode: %d static objects exceeds u16 table size", len(f.Statics))
	}
	w.WriteStaticID(uint16(len(f.Statics)))
	for i, s := range f.Statics {
		w.WriteByte(byte(s.Kind))
		switch s.Kind {
		case StaticString:
			w.WriteString(s.Str)
		case StaticAddr:
			w.WriteAddr(s.Addr)
		case StaticFunc:
			w.WriteFuncDescriptor(s.Func)
		case StaticType:
			if err := w.WriteTypeDescriptor(s.Type); err != nil {
				return nil, fmt.Errorf("bytecode: static slot %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("bytecode: static slot %d has unknown kind %d", i, s.Kind)
		}
	}
	out := w.Bytes()
	out = append(out, f.Code...)
	return out, nil
}

// Decode parses a complete bytecode file written by Encode.
func Decode(data []byte) (*File, error) {
	r := NewReader(data)
	count, err := r.ReadStaticID()
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading static table header: %w", err)
	}
	statics := make([]StaticObject, count)
	for i := range statics {
		kindByte, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("bytecode: static slot %d: %w", i, err)
		}
		kind := StaticKind(kindByte)
		var s StaticObject
		s.Kind = kind
		switch kind {
		case StaticString:
			s.Str, err = r.ReadString()
		case StaticAddr:
			s.Addr, err = r.ReadAddr()
		case StaticFunc:
			s.Func, err = r.ReadFuncDescriptor()
		case StaticType:
			s.Type, err = r.ReadTypeDescriptor()
		default:
			return nil, fmt.Errorf("bytecode: static slot %d has unknown kind %d", i, kind)
		}
		if err != nil {
			return nil, fmt.Errorf("bytecode: static slot %d: %w", i, err)
		}
		statics[i] = s
	}
	return &File{Statics: statics, Code: append([]byte(nil), data[r.Pos:]...)}, nil
}
