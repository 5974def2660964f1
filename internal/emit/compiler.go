package emit

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/symbols"
	"github.com/ajmd17/ace-lang-sub001/internal/typesystem"
)

var _ ast.Builder = (*Compiler)(nil)

// pendingFuncStatic is a static function-descriptor slot whose Addr field
// can only be patched once the whole unit's labels are resolved.
type pendingFuncStatic struct {
	idx   int
	label LabelID
}

// Compiler walks an analyzed AST via ast.Builder, emitting a bytecode.File
// (spec.md §2 item 7, §4.3-§4.5). Grounded on the teacher's
// internal/vm/compiler.go for the "one struct holding every allocator plus
// the growing static/constant table, driven by a Visitor-shaped dispatch"
// shape; re-keyed throughout from the teacher's stack-machine/closures
// (OP_CONST/OP_CLOSURE/upvalues) to the register machine and storage-
// operation builder of spec.md §3.8-§3.9, §4.3-§4.5, since the two
// machines share no instruction-for-instruction correspondence.
type Compiler struct {
	Types *typesystem.Table
	Errs  *diagnostics.Bag

	regs   RegisterAllocator
	stack  StackAllocator
	labels LabelAllocator

	cur   *Chunk // current emission target (swapped per function body)
	funcs *Chunk // hoisted function bodies, appended after the top-level EXIT

	statics      []bytecode.StaticObject
	stringIDs    map[string]int
	pendingFuncs []pendingFuncStatic

	// globalSlots assigns each module-scope (not FlagDeclaredInFunction)
	// identifier an absolute stack-slot index, the "static" storage method
	// of spec.md §3.9 — distinct from the statics table above, which holds
	// constant string/function/type payloads, not mutable global bindings.
	globalSlots map[*symbols.Identifier]int
	nextGlobal  int
}

// NewCompiler returns a Compiler ready to emit a single compilation unit.
func NewCompiler(types *typesystem.Table, errs *diagnostics.Bag) *Compiler {
	return &Compiler{
		Types:       types,
		Errs:        errs,
		cur:         NewChunk(),
		funcs:       NewChunk(),
		stringIDs:   make(map[string]int),
		globalSlots: make(map[*symbols.Identifier]int),
	}
}

// Compile drives Build over every top-level statement of prog and returns
// the assembled bytecode file: static-object prelude, main instruction
// stream ending in EXIT, then the hoisted function bodies (spec.md §6).
func (c *Compiler) Compile(prog *ast.Program) (*bytecode.File, error) {
	for _, stmt := range prog.Statements {
		stmt.Build(c)
	}
	c.cur.Raw([]byte{byte(bytecode.OpExit)})

	root := NewChunk()
	root.Append(c.cur)
	root.Append(c.funcs)

	labels := map[LabelID]int{}
	root.collectLabels(0, labels)

	for _, p := range c.pendingFuncs {
		c.statics[p.idx].Func.Addr = uint32(labels[p.label])
	}

	w := bytecode.NewWriter()
	root.emit(w, labels)

	return &bytecode.File{Statics: c.statics, Code: w.Bytes()}, nil
}

func (c *Compiler) internString(s string) int {
	if idx, ok := c.stringIDs[s]; ok {
		return idx
	}
	idx := len(c.statics)
	c.statics = append(c.statics, bytecode.StaticObject{Kind: bytecode.StaticString, Str: s})
	c.stringIDs[s] = idx
	return idx
}

func (c *Compiler) internFunc(argCount int, flags bytecode.FuncFlag, label LabelID) int {
	idx := len(c.statics)
	c.statics = append(c.statics, bytecode.StaticObject{
		Kind: bytecode.StaticFunc,
		Func: bytecode.FuncDescriptor{ArgCount: uint8(argCount), Flags: flags},
	})
	c.pendingFuncs = append(c.pendingFuncs, pendingFuncStatic{idx: idx, label: label})
	return idx
}

func (c *Compiler) internType(name string, members []string) int {
	idx := len(c.statics)
	c.statics = append(c.statics, bytecode.StaticObject{
		Kind: bytecode.StaticType,
		Type: bytecode.TypeDescriptor{Name: name, Members: members},
	})
	return idx
}

// raw appends a fixed-shape instruction (one with no jump-target operand)
// built by fn as a pre-sized leaf of the current chunk.
func (c *Compiler) raw(fn func(w *bytecode.Writer)) {
	w := bytecode.NewWriter()
	fn(w)
	c.cur.Raw(w.Bytes())
}

// appendStorage appends a StorageBuilder result to the current chunk,
// reporting a fatal diagnostic on error. This should never actually fire:
// the compiler only ever requests (method, strategy) combinations the
// analyzer already validated by construction.
func (c *Compiler) appendStorage(b Buildable, err error) {
	if err != nil {
		c.Errs.Fatal(diagnostics.KindEmitUnsupported, diagnostics.Location{}, "emit: %v", err)
		return
	}
	c.cur.Append(b)
}

// identSlot returns whether ident lives in a local stack slot or an
// absolute global slot, assigning one on first use.
func (c *Compiler) identSlot(ident *symbols.Identifier) (isLocal bool, slot int) {
	if ident.Flags.Has(symbols.FlagDeclaredInFunction) {
		if ident.Slot < 0 {
			ident.Slot = c.stack.Claim()
		}
		return true, ident.Slot
	}
	if s, ok := c.globalSlots[ident]; ok {
		return false, s
	}
	s := c.nextGlobal
	c.nextGlobal++
	c.globalSlots[ident] = s
	return false, s
}

func (c *Compiler) loadIdent(dst bytecode.Register, ident *symbols.Identifier) {
	local, slot := c.identSlot(ident)
	if local {
		b, err := GetBuilder().Load(dst).Local().ByOffset(int16(slot))
		c.appendStorage(b, err)
		return
	}
	b, err := GetBuilder().Load(dst).Static().ByIndex(slot)
	c.appendStorage(b, err)
}

func (c *Compiler) storeIdent(ident *symbols.Identifier, src bytecode.Register) {
	local, slot := c.identSlot(ident)
	if local {
		b, err := GetBuilder().Store(src).Local().ByOffset(int16(slot))
		c.appendStorage(b, err)
		return
	}
	b, err := GetBuilder().Store(src).Static().ByIndex(slot)
	c.appendStorage(b, err)
}

// --- literals ---

func (c *Compiler) BuildIntLiteral(n *ast.IntLiteral) {
	dst := c.regs.Current()
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpLoadI64)
		w.WriteReg(dst)
		w.WriteI64(n.Value)
	})
}

func (c *Compiler) BuildFloatLiteral(n *ast.FloatLiteral) {
	dst := c.regs.Current()
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpLoadF64)
		w.WriteReg(dst)
		w.WriteF64(n.Value)
	})
}

func (c *Compiler) BuildStringLiteral(n *ast.StringLiteral) {
	dst := c.regs.Current()
	idx := c.internString(n.Value)
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpLoadString)
		w.WriteReg(dst)
		w.WriteStaticID(uint16(idx))
	})
}

func (c *Compiler) BuildBoolLiteral(n *ast.BoolLiteral) {
	dst := c.regs.Current()
	op := bytecode.OpLoadFalse
	if n.Value {
		op = bytecode.OpLoadTrue
	}
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(op)
		w.WriteReg(dst)
	})
}

func (c *Compiler) BuildNullLiteral(n *ast.NullLiteral) {
	dst := c.regs.Current()
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpLoadNull)
		w.WriteReg(dst)
	})
}

// --- identifier ---

func (c *Compiler) BuildIdentifier(n *ast.Identifier) {
	dst := c.regs.Current()
	ident, ok := n.Resolved.(*symbols.Identifier)
	if !ok {
		c.Errs.Fatal(diagnostics.KindEmitUnsupported, n.GetLoc(), "emit: identifier %q has no resolved binding", n.Name)
		return
	}
	if n.IsCapture {
		envReg := c.regs.Inc()
		b, err := GetBuilder().Load(envReg).Local().ByOffset(0)
		c.appendStorage(b, err)
		hash := bytecode.HashMemberName(n.Name)
		b2, err2 := GetBuilder().Load(dst).Member(envReg).ByHash(hash)
		c.appendStorage(b2, err2)
		c.regs.Dec()
		return
	}
	c.loadIdent(dst, ident)
}

// --- binary / unary ---

var arithOpcodes = map[ast.BinaryOp]bytecode.Opcode{
	ast.OpAdd: bytecode.OpAdd,
	ast.OpSub: bytecode.OpSub,
	ast.OpMul: bytecode.OpMul,
	ast.OpDiv: bytecode.OpDiv,
	ast.OpMod: bytecode.OpMod,
}

func (c *Compiler) BuildBinaryExpr(n *ast.BinaryExpr) {
	dst := c.regs.Current()

	if n.Op == ast.OpAnd {
		c.buildLogicalAnd(n, dst)
		return
	}
	if n.Op == ast.OpOr {
		c.buildLogicalOr(n, dst)
		return
	}

	var lhs, rhs bytecode.Register
	switch ChooseBinaryStrategy(n.Left, n.Right) {
	case LoadRightThenLeft:
		rhs = dst
		n.Right.Build(c)
		lhs = c.regs.Inc()
		n.Left.Build(c)
		c.regs.Dec()
	case LoadLeftAndStore:
		lhs = dst
		n.Left.Build(c)
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpPush); w.WriteReg(lhs) })
		c.stack.Push()
		rhs = c.regs.Inc()
		n.Right.Build(c)
		c.regs.Dec()
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpPop); w.WriteReg(lhs) })
		c.stack.Pop()
	default: // LoadLeftThenRight
		lhs = dst
		n.Left.Build(c)
		rhs = c.regs.Inc()
		n.Right.Build(c)
		c.regs.Dec()
	}

	if op, ok := arithOpcodes[n.Op]; ok {
		c.raw(func(w *bytecode.Writer) {
			w.WriteOpcode(op)
			w.WriteReg(lhs)
			w.WriteReg(rhs)
		})
		if lhs != dst {
			c.raw(func(w *bytecode.Writer) {
				w.WriteOpcode(bytecode.OpMovReg)
				w.WriteReg(lhs)
				w.WriteReg(dst)
			})
		}
		return
	}
	c.buildComparison(n.Op, lhs, rhs, dst)
}

// buildComparison materializes a Boolean from the instruction set's only
// value-producing comparison path: CMP sets compare-flags, a matching
// conditional jump branches on them, and each arm loads the Boolean
// constant (spec.md §4.4 has no dedicated comparison opcode). Lt/Lte have
// no dedicated jump opcode, so they're compiled by swapping the CMP operand
// order and reusing JG/JGE (a<b iff b>a, a<=b iff b>=a).
func (c *Compiler) buildComparison(op ast.BinaryOp, lhs, rhs, dst bytecode.Register) {
	a, b := lhs, rhs
	var jmpOp bytecode.Opcode
	switch op {
	case ast.OpEq:
		jmpOp = bytecode.OpJmpEq
	case ast.OpNeq:
		jmpOp = bytecode.OpJmpNeq
	case ast.OpGt:
		jmpOp = bytecode.OpJmpGt
	case ast.OpGte:
		jmpOp = bytecode.OpJmpGe
	case ast.OpLt:
		a, b = rhs, lhs
		jmpOp = bytecode.OpJmpGt
	case ast.OpLte:
		a, b = rhs, lhs
		jmpOp = bytecode.OpJmpGe
	default:
		c.Errs.Fatal(diagnostics.KindEmitUnsupported, diagnostics.Location{}, "emit: unsupported comparison operator")
		return
	}
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpCmp)
		w.WriteReg(a)
		w.WriteReg(b)
	})
	lTrue := c.labels.New()
	lEnd := c.labels.New()
	c.cur.Jump(jmpOp, lTrue)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadFalse); w.WriteReg(dst) })
	c.cur.Jump(bytecode.OpJmp, lEnd)
	c.cur.Mark(lTrue)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadTrue); w.WriteReg(dst) })
	c.cur.Mark(lEnd)
}

// buildLogicalAnd short-circuits via CMPZ + branch, since the instruction
// set has no dedicated logical-AND opcode (spec.md §4.4).
func (c *Compiler) buildLogicalAnd(n *ast.BinaryExpr, dst bytecode.Register) {
	n.Left.Build(c)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpCmpZ); w.WriteReg(dst) })
	lFalse := c.labels.New()
	lEnd := c.labels.New()
	c.cur.Jump(bytecode.OpJmpEq, lFalse)
	n.Right.Build(c)
	c.cur.Jump(bytecode.OpJmp, lEnd)
	c.cur.Mark(lFalse)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadFalse); w.WriteReg(dst) })
	c.cur.Mark(lEnd)
}

func (c *Compiler) buildLogicalOr(n *ast.BinaryExpr, dst bytecode.Register) {
	n.Left.Build(c)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpCmpZ); w.WriteReg(dst) })
	lEvalRight := c.labels.New()
	lEnd := c.labels.New()
	c.cur.Jump(bytecode.OpJmpEq, lEvalRight)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadTrue); w.WriteReg(dst) })
	c.cur.Jump(bytecode.OpJmp, lEnd)
	c.cur.Mark(lEvalRight)
	n.Right.Build(c)
	c.cur.Mark(lEnd)
}

func (c *Compiler) BuildUnaryExpr(n *ast.UnaryExpr) {
	dst := c.regs.Current()
	n.Operand.Build(c)
	switch n.Op {
	case ast.OpNeg:
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpNeg); w.WriteReg(dst) })
	case ast.OpBitNot:
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpBitNot); w.WriteReg(dst) })
	case ast.OpNot:
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpCmpZ); w.WriteReg(dst) })
		lTrue := c.labels.New()
		lEnd := c.labels.New()
		c.cur.Jump(bytecode.OpJmpEq, lTrue)
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadFalse); w.WriteReg(dst) })
		c.cur.Jump(bytecode.OpJmp, lEnd)
		c.cur.Mark(lTrue)
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadTrue); w.WriteReg(dst) })
		c.cur.Mark(lEnd)
	}
}

// --- calls / members / arrays ---

func (c *Compiler) BuildCallExpr(n *ast.CallExpr) {
	dst := c.regs.Current()
	calleeReg := c.regs.Inc()
	n.Callee.Build(c)

	argCount := 0
	for _, arg := range n.Args {
		argReg := c.regs.Inc()
		arg.Value.Build(c)
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpPush); w.WriteReg(argReg) })
		c.stack.Push()
		c.regs.Dec()
		argCount++
	}

	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpCall)
		w.WriteReg(calleeReg)
		w.WriteByte(byte(argCount))
	})
	for i := 0; i < argCount; i++ {
		c.stack.Pop()
	}
	c.regs.Dec() // release calleeReg, back to dst

	// Calling convention (spec.md §6): a call's result is left in register
	// 0 by the callee.
	if dst != 0 {
		c.raw(func(w *bytecode.Writer) {
			w.WriteOpcode(bytecode.OpMovReg)
			w.WriteReg(0)
			w.WriteReg(dst)
		})
	}
}

func (c *Compiler) memberIndex(objType typesystem.ID, name string) int {
	ty := c.Types.Get(objType)
	if ty == nil {
		return -1
	}
	for i, m := range ty.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func (c *Compiler) BuildMemberExpr(n *ast.MemberExpr) {
	dst := c.regs.Current()
	n.Object.Build(c)
	if n.Strategy == ast.AccessByIndex {
		idx := c.memberIndex(n.Object.GetExprType(), n.Name)
		b, err := GetBuilder().Load(dst).Member(dst).ByIndex(idx)
		c.appendStorage(b, err)
		return
	}
	hash := bytecode.HashMemberName(n.Name)
	b, err := GetBuilder().Load(dst).Member(dst).ByHash(hash)
	c.appendStorage(b, err)
}

func (c *Compiler) BuildArrayAccessExpr(n *ast.ArrayAccessExpr) {
	dst := c.regs.Current()
	n.Array.Build(c)
	idxReg := c.regs.Inc()
	n.Index.Build(c)
	c.regs.Dec()
	b, err := GetBuilder().Load(dst).Array(dst).ByRegister(idxReg)
	c.appendStorage(b, err)
}

func (c *Compiler) BuildHasExpr(n *ast.HasExpr) {
	dst := c.regs.Current()
	n.Object.Build(c)
	hash := bytecode.HashMemberName(n.Name)
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpHasMemHash)
		w.WriteReg(dst)
		w.WriteHash(hash)
	})
}

// --- sequence / object literals ---

func (c *Compiler) buildSequenceLiteral(dst bytecode.Register, elements []ast.Expression) {
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpNewArray)
		w.WriteReg(dst)
		w.WriteStackOffset(int16(len(elements)))
	})
	for i, el := range elements {
		elReg := c.regs.Inc()
		el.Build(c)
		idxReg := c.regs.Inc()
		idx := int64(i)
		c.raw(func(w *bytecode.Writer) {
			w.WriteOpcode(bytecode.OpLoadI64)
			w.WriteReg(idxReg)
			w.WriteI64(idx)
		})
		b, err := GetBuilder().Store(elReg).Array(dst).ByRegister(idxReg)
		c.appendStorage(b, err)
		c.regs.Dec()
		c.regs.Dec()
	}
}

func (c *Compiler) BuildArrayLiteral(n *ast.ArrayLiteral) {
	c.buildSequenceLiteral(c.regs.Current(), n.Elements)
}

func (c *Compiler) BuildTupleLiteral(n *ast.TupleLiteral) {
	c.buildSequenceLiteral(c.regs.Current(), n.Elements)
}

func (c *Compiler) BuildObjectLiteral(n *ast.ObjectLiteral) {
	dst := c.regs.Current()
	members := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		members[i] = f.Name
	}
	typeIdx := c.internType(n.TypeName, members)
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpNew)
		w.WriteReg(dst)
		w.WriteStaticID(uint16(typeIdx))
	})
	for i, f := range n.Fields {
		valReg := c.regs.Inc()
		f.Value.Build(c)
		idx := i
		b, err := GetBuilder().Store(valReg).Member(dst).ByIndex(idx)
		c.appendStorage(b, err)
		c.regs.Dec()
	}
}

// resolveConstructorArgIndices reproduces the analyzer's VisitNewExpr
// named/positional member-filling algorithm (internal/analyzer/
// visit_expressions.go), since NewExpr.Args are never reordered into
// positional slots the way CallExpr.Args are.
func resolveConstructorArgIndices(ty *typesystem.Type, args []ast.Arg) []int {
	n := len(ty.Members)
	filled := make([]bool, n)
	indices := make([]int, len(args))
	for i := range indices {
		indices[i] = -1
	}
	for i, arg := range args {
		if arg.Name == "" {
			continue
		}
		for j, m := range ty.Members {
			if m.Name == arg.Name && !filled[j] {
				indices[i] = j
				filled[j] = true
				break
			}
		}
	}
	next := 0
	for i, arg := range args {
		if arg.Name != "" {
			continue
		}
		for next < n && filled[next] {
			next++
		}
		if next >= n {
			continue
		}
		indices[i] = next
		filled[next] = true
		next++
	}
	return indices
}

func (c *Compiler) BuildNewExpr(n *ast.NewExpr) {
	dst := c.regs.Current()
	tyID, _ := c.Types.Lookup(n.TypeName)
	ty := c.Types.Get(tyID)

	var members []string
	if ty != nil {
		members = make([]string, len(ty.Members))
		for i, m := range ty.Members {
			members[i] = m.Name
		}
	}
	typeIdx := c.internType(n.TypeName, members)
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpNew)
		w.WriteReg(dst)
		w.WriteStaticID(uint16(typeIdx))
	})
	if ty == nil {
		return
	}
	indices := resolveConstructorArgIndices(ty, n.Args)
	for i, arg := range n.Args {
		idx := indices[i]
		if idx < 0 {
			continue
		}
		valReg := c.regs.Inc()
		arg.Value.Build(c)
		b, err := GetBuilder().Store(valReg).Member(dst).ByIndex(idx)
		c.appendStorage(b, err)
		c.regs.Dec()
	}
}

// --- assignment ---

func (c *Compiler) BuildAssignExpr(n *ast.AssignExpr) {
	dst := c.regs.Current()
	n.Value.Build(c)

	switch t := n.Target.(type) {
	case *ast.Identifier:
		if t.IsCapture {
			envReg := c.regs.Inc()
			b, err := GetBuilder().Load(envReg).Local().ByOffset(0)
			c.appendStorage(b, err)
			hash := bytecode.HashMemberName(t.Name)
			b2, err2 := GetBuilder().Store(dst).Member(envReg).ByHash(hash)
			c.appendStorage(b2, err2)
			c.regs.Dec()
			return
		}
		ident, ok := t.Resolved.(*symbols.Identifier)
		if !ok {
			c.Errs.Fatal(diagnostics.KindEmitUnsupported, n.GetLoc(), "emit: assignment target %q has no resolved binding", t.Name)
			return
		}
		c.storeIdent(ident, dst)
	case *ast.MemberExpr:
		objReg := c.regs.Inc()
		t.Object.Build(c)
		if t.Strategy == ast.AccessByIndex {
			idx := c.memberIndex(t.Object.GetExprType(), t.Name)
			b, err := GetBuilder().Store(dst).Member(objReg).ByIndex(idx)
			c.appendStorage(b, err)
		} else {
			hash := bytecode.HashMemberName(t.Name)
			b, err := GetBuilder().Store(dst).Member(objReg).ByHash(hash)
			c.appendStorage(b, err)
		}
		c.regs.Dec()
	case *ast.ArrayAccessExpr:
		arrReg := c.regs.Inc()
		t.Array.Build(c)
		idxReg := c.regs.Inc()
		t.Index.Build(c)
		c.regs.Dec()
		b, err := GetBuilder().Store(dst).Array(arrReg).ByRegister(idxReg)
		c.appendStorage(b, err)
		c.regs.Dec()
	}
}

// --- functions / closures ---

// buildClosureEnv builds the captured-environment heap object spec.md §4.4
// says a closure carries as an implicit first argument: a `__fn` member
// holding the function's descriptor, plus one member per free variable,
// snapshotted by value from the enclosing scope at creation time (a
// deliberate simplification from true by-reference upvalues; see
// DESIGN.md).
func (c *Compiler) buildClosureEnv(n *ast.FunctionExpr, dst bytecode.Register, funcStaticIdx int) {
	members := append([]string{"__fn"}, n.FreeVars...)
	typeIdx := c.internType("", members)
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpNew)
		w.WriteReg(dst)
		w.WriteStaticID(uint16(typeIdx))
	})

	fnReg := c.regs.Inc()
	c.raw(func(w *bytecode.Writer) {
		w.WriteOpcode(bytecode.OpLoadFunc)
		w.WriteReg(fnReg)
		w.WriteStaticID(uint16(funcStaticIdx))
	})
	b, err := GetBuilder().Store(fnReg).Member(dst).ByIndex(0)
	c.appendStorage(b, err)
	c.regs.Dec()

	for i, src := range n.FreeVarSources {
		ident, ok := src.(*symbols.Identifier)
		if !ok {
			continue
		}
		valReg := c.regs.Inc()
		c.loadIdent(valReg, ident)
		idx := i + 1
		b, err := GetBuilder().Store(valReg).Member(dst).ByIndex(idx)
		c.appendStorage(b, err)
		c.regs.Dec()
	}
}

func (c *Compiler) BuildFunctionExpr(n *ast.FunctionExpr) {
	dst := c.regs.Current()
	isClosure := len(n.FreeVars) > 0
	entryLabel := c.labels.New()

	savedCur, savedStack, savedRegs := c.cur, c.stack, c.regs

	bodyChunk := NewChunk()
	c.cur = bodyChunk
	c.stack = StackAllocator{}
	c.regs = RegisterAllocator{}

	if isClosure {
		c.stack.Claim() // slot 0: captured-environment object
	}
	for i := range n.Params {
		slot := c.stack.Claim()
		if ident, ok := n.Params[i].Resolved.(*symbols.Identifier); ok {
			ident.Slot = slot
		}
	}

	for _, stmt := range n.Body.Statements {
		stmt.Build(c)
	}
	c.cur.Raw([]byte{byte(bytecode.OpRet)})

	c.funcs.Mark(entryLabel)
	c.funcs.Append(bodyChunk)

	c.cur, c.stack, c.regs = savedCur, savedStack, savedRegs

	var flags bytecode.FuncFlag
	if isClosure {
		flags |= bytecode.FuncFlagClosure
	}
	if n.IsGenerator {
		flags |= bytecode.FuncFlagGenerator
	}
	for _, p := range n.Params {
		if p.Variadic {
			flags |= bytecode.FuncFlagVariadic
		}
	}

	argCount := len(n.Params)
	if isClosure {
		argCount++ // hidden env argument in slot 0
	}
	staticIdx := c.internFunc(argCount, flags, entryLabel)

	if isClosure {
		c.buildClosureEnv(n, dst, staticIdx)
	} else {
		c.raw(func(w *bytecode.Writer) {
			w.WriteOpcode(bytecode.OpLoadFunc)
			w.WriteReg(dst)
			w.WriteStaticID(uint16(staticIdx))
		})
	}

	if n.Name != "" {
		if ident, ok := n.Resolved.(*symbols.Identifier); ok {
			c.storeIdent(ident, dst)
		}
	}
}

// --- statements ---

func (c *Compiler) BuildExpressionStatement(n *ast.ExpressionStatement) {
	n.Expr.Build(c)
}

func (c *Compiler) BuildVariableDeclaration(n *ast.VariableDeclaration) {
	ident, ok := n.Resolved.(*symbols.Identifier)
	if !ok {
		return
	}
	c.identSlot(ident) // claim the slot at the declaration site, in order

	value := n.Value
	if value == nil {
		if ty := c.Types.Get(ident.Type); ty != nil {
			if def, ok := ty.Default.(ast.Expression); ok {
				value = def
			}
		}
	}
	if value == nil {
		return
	}
	value.Build(c)
	c.storeIdent(ident, c.regs.Current())
}

func (c *Compiler) BuildPrototypeDeclaration(n *ast.PrototypeDeclaration) {
	members := make([]string, len(n.Members))
	for i, m := range n.Members {
		members[i] = m.Name
	}
	c.internType(n.Name, members)
}

func (c *Compiler) BuildModuleDeclaration(n *ast.ModuleDeclaration) {
	for _, s := range n.Body {
		s.Build(c)
	}
}

func (c *Compiler) BuildBlockStatement(n *ast.BlockStatement) {
	mark := c.stack.Mark()
	for _, s := range n.Statements {
		s.Build(c)
	}
	c.stack.Reset(mark)
}

func (c *Compiler) BuildIfStatement(n *ast.IfStatement) {
	dst := c.regs.Current()
	n.Cond.Build(c)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpCmpZ); w.WriteReg(dst) })

	if n.Else == nil {
		lEnd := c.labels.New()
		c.cur.Jump(bytecode.OpJmpEq, lEnd)
		n.Then.Build(c)
		c.cur.Mark(lEnd)
		return
	}
	lElse := c.labels.New()
	lEnd := c.labels.New()
	c.cur.Jump(bytecode.OpJmpEq, lElse)
	n.Then.Build(c)
	c.cur.Jump(bytecode.OpJmp, lEnd)
	c.cur.Mark(lElse)
	n.Else.Build(c)
	c.cur.Mark(lEnd)
}

func (c *Compiler) BuildWhileStatement(n *ast.WhileStatement) {
	dst := c.regs.Current()
	lStart := c.labels.New()
	lEnd := c.labels.New()
	c.cur.Mark(lStart)
	n.Cond.Build(c)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpCmpZ); w.WriteReg(dst) })
	c.cur.Jump(bytecode.OpJmpEq, lEnd)
	n.Body.Build(c)
	c.cur.Jump(bytecode.OpJmp, lStart)
	c.cur.Mark(lEnd)
}

func (c *Compiler) BuildTryCatchStatement(n *ast.TryCatchStatement) {
	lCatch := c.labels.New()
	lEnd := c.labels.New()
	c.cur.Jump(bytecode.OpBeginTry, lCatch)
	n.Try.Build(c)
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpEndTry) })
	c.cur.Jump(bytecode.OpJmp, lEnd)

	c.cur.Mark(lCatch)
	if n.CatchName != "" {
		if ident, ok := n.CatchResolved.(*symbols.Identifier); ok {
			// The VM's exception unwinder leaves the thrown value in
			// register 0, mirroring CALL's return-value convention.
			c.storeIdent(ident, 0)
		}
	}
	n.Catch.Build(c)
	c.cur.Mark(lEnd)
}

func (c *Compiler) BuildReturnStatement(n *ast.ReturnStatement) {
	if n.Value != nil {
		n.Value.Build(c)
		if c.regs.Current() != 0 {
			c.raw(func(w *bytecode.Writer) {
				w.WriteOpcode(bytecode.OpMovReg)
				w.WriteReg(c.regs.Current())
				w.WriteReg(0)
			})
		}
	} else {
		c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpLoadNull); w.WriteReg(0) })
	}
	c.raw(func(w *bytecode.Writer) { w.WriteOpcode(bytecode.OpRet) })
}

// BuildYieldStatement implements only the generator-flag hook spec.md §9
// names: the yielded value is evaluated into register 0 the same way a
// return value is, with no resumption protocol.
func (c *Compiler) BuildYieldStatement(n *ast.YieldStatement) {
	n.Value.Build(c)
	if c.regs.Current() != 0 {
		c.raw(func(w *bytecode.Writer) {
			w.WriteOpcode(bytecode.OpMovReg)
			w.WriteReg(c.regs.Current())
			w.WriteReg(0)
		})
	}
}

// BuildLocalImportStatement and BuildModuleImportStatement are pipeline-
// only concerns: by the time emission runs, a local import has already
// been spliced into the importing file's statement list and a module
// import has already registered its target module, so there is nothing
// left to emit here.
func (c *Compiler) BuildLocalImportStatement(n *ast.LocalImportStatement)   {}
func (c *Compiler) BuildModuleImportStatement(n *ast.ModuleImportStatement) {}

// BuildMetaBlockStatement emits nothing: a meta block reaches emission
// unchanged, and its statements are neither executed at compile time nor
// compiled into the program.
func (c *Compiler) BuildMetaBlockStatement(n *ast.MetaBlockStatement) {}
