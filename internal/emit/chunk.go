// Package emit implements the bytecode emission model of spec.md §3.8–3.9:
// a tree of Buildable nodes sized and flattened in two passes, a fluent
// storage-operation builder, and the Compiler that walks an analyzed AST
// via ast.Builder to produce a bytecode.File.
//
// Grounded on the teacher's internal/vm/chunk.go for the "flat byte buffer
// the compiler appends to, with a side table resolved after the whole
// unit is known" shape, but restructured into spec.md §3.8's explicit
// buildable tree (two variants: code chunk and jump) plus §9 design note
// 6's two-pass size-then-emit algorithm, since the teacher's Chunk is a
// single already-linear buffer with no tree structure or label back-patch
// step of its own (it patches jump offsets in place as it goes).
package emit

import "github.com/ajmd17/ace-lang-sub001/internal/bytecode"

// LabelID names a jump target local to the chunk tree it was allocated
// in. Label resolution walks the whole tree, so ids are unique across an
// entire compilation unit, not just one chunk.
type LabelID int

// Buildable is one node of the emission tree (spec.md §3.8).
type Buildable interface {
	// Size returns this node's encoded length in bytes, computable
	// without any label having been resolved yet.
	Size() int

	// collectLabels records the absolute byte offset of every label this
	// node (or a descendant) marks, given this node's own absolute start
	// offset within the final stream.
	collectLabels(offset int, out map[LabelID]int)

	// emit writes this node's encoded bytes, resolving any jump target
	// against the fully flattened label table built by collectLabels.
	emit(w *bytecode.Writer, labels map[LabelID]int)
}

// Chunk is the "code chunk" buildable variant: an ordered list of child
// buildables, some of which may be label marks local to this chunk.
type Chunk struct {
	Children []Buildable
}

// NewChunk returns an empty chunk.
func NewChunk() *Chunk { return &Chunk{} }

// Append adds a child buildable to the end of the chunk.
func (c *Chunk) Append(b Buildable) { c.Children = append(c.Children, b) }

// Raw appends pre-encoded bytes as a fixed-size leaf (used for
// instructions with no jump target, whose operands are already fully
// known at construction time).
func (c *Chunk) Raw(b []byte) { c.Append(&rawBuildable{bytes: b}) }

// Mark places a label at the chunk's current end position.
func (c *Chunk) Mark(id LabelID) { c.Append(&labelMark{id: id}) }

// Jump appends the "jump" buildable variant: an opcode plus a label-id
// operand, encoded as opcode byte + 4-byte absolute address once
// resolved (spec.md §3.8, §6).
func (c *Chunk) Jump(op bytecode.Opcode, target LabelID) {
	c.Append(&jumpBuildable{op: op, target: target})
}

func (c *Chunk) Size() int {
	n := 0
	for _, ch := range c.Children {
		n += ch.Size()
	}
	return n
}

func (c *Chunk) collectLabels(offset int, out map[LabelID]int) {
	pos := offset
	for _, ch := range c.Children {
		ch.collectLabels(pos, out)
		pos += ch.Size()
	}
}

func (c *Chunk) emit(w *bytecode.Writer, labels map[LabelID]int) {
	for _, ch := range c.Children {
		ch.emit(w, labels)
	}
}

// Assemble resolves every label in root (pass 1) and writes the flattened
// byte stream (pass 2), per spec.md §9 design note 6.
func Assemble(root *Chunk) []byte {
	labels := map[LabelID]int{}
	root.collectLabels(0, labels)
	w := bytecode.NewWriter()
	root.emit(w, labels)
	return w.Bytes()
}

// LabelOffset resolves id's absolute byte offset within root, the same
// way Compiler patches static function-descriptor addresses after the
// whole unit has been sized.
func LabelOffset(root *Chunk, id LabelID) (int, bool) {
	labels := map[LabelID]int{}
	root.collectLabels(0, labels)
	off, ok := labels[id]
	return off, ok
}

type rawBuildable struct{ bytes []byte }

func (r *rawBuildable) Size() int                                     { return len(r.bytes) }
func (r *rawBuildable) collectLabels(int, map[LabelID]int)            {}
func (r *rawBuildable) emit(w *bytecode.Writer, _ map[LabelID]int)     { w.WriteRaw(r.bytes) }

type labelMark struct{ id LabelID }

func (l *labelMark) Size() int { return 0 }
func (l *labelMark) collectLabels(offset int, out map[LabelID]int) { out[l.id] = offset }
func (l *labelMark) emit(*bytecode.Writer, map[LabelID]int)        {}

// jumpAddrSize is the wire size of a jump buildable: 1-byte opcode plus a
// 4-byte absolute address (spec.md §6).
const jumpAddrSize = 5

type jumpBuildable struct {
	op     bytecode.Opcode
	target LabelID
}

func (j *jumpBuildable) Size() int                          { return jumpAddrSize }
func (j *jumpBuildable) collectLabels(int, map[LabelID]int) {}
func (j *jumpBuildable) emit(w *bytecode.Writer, labels map[LabelID]int) {
	w.WriteOpcode(j.op)
	w.WriteAddr(uint32(labels[j.target]))
}
