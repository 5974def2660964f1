package vmrt

import (
	"sync"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/google/uuid"
)

// CallFrame is one activation record: a register window private to the
// call (spec.md §4.3's register cursor is per function body, so the VM
// gives every call its own array rather than sharing one global file),
// the base index into the thread's shared locals/operand Stack where this
// call's local slots begin, and the absolute address to resume the caller
// at once RET runs.
type CallFrame struct {
	Regs     [bytecode.NumRegisters]Value
	Base     int
	ReturnPC int
}

// TryFrame is a pushed try-frame (glossary: "a record containing the
// catch address and operand-stack depth at the time of BEGIN_TRY"),
// additionally recording which call-frame depth it belongs to so an
// exception thrown from a deeper call can unwind both the operand stack
// and the call stack back to the frame that opened it.
type TryFrame struct {
	CatchAddr  uint32
	StackDepth int
	FrameDepth int
}

// Thread is one of spec.md §5's parallel execution threads: its own
// register files (one per call frame), operand stack and try-frame stack,
// advancing one bytecode instruction at a time. Threads share one VM's
// Heap and Globals. Grounded on the teacher's VM.stack/frames pairing in
// internal/vm/vm.go, split here into a per-thread struct since this
// machine actually runs threads in parallel rather than the teacher's
// single implicit one.
//
// The VM schedules threads cooperatively on a single goroutine (see
// schedule.go's RunAll), time-sliced at instruction boundaries, rather than
// as real OS threads: "parallel threads" per spec.md §5 is a programming
// model (independent register/stack/try-frame state per thread, one
// shared heap) rather than a mandate for true concurrent execution. That
// keeps GC root-scanning (gc.go, Collect) a simple snapshot with no
// cross-goroutine synchronization needed — only pendingErr, set by an
// embedder that may genuinely be a different goroutine, needs its own
// lock.
type Thread struct {
	ID uuid.UUID

	Frames   []*CallFrame
	Stack    []Value
	TryStack []TryFrame

	PC  int
	cmp Ordering

	Done bool
	Err  error

	pendingMu  sync.Mutex
	pendingErr error
}

// NewThread creates a thread ready to begin executing at entry, with a
// single root call frame (base 0) standing in for "no caller to return
// to" — RET is never compiled at top level, so ReturnPC on frame 0 is
// never read.
func NewThread(entry uint32) *Thread {
	t := &Thread{ID: uuid.New(), PC: int(entry)}
	t.Frames = []*CallFrame{{}}
	return t
}

func (t *Thread) frame() *CallFrame { return t.Frames[len(t.Frames)-1] }

// RequestThrow is the embedder cancellation entry point (spec.md §5): it
// may be called from any goroutine and takes effect the next time this
// thread reaches a suspension point.
func (t *Thread) RequestThrow(err error) {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()
	t.pendingErr = err
}

func (t *Thread) takePending() error {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()
	err := t.pendingErr
	t.pendingErr = nil
	return err
}

// snapshotRoots copies every Value currently reachable from this thread's
// registers and operand stack, for a GC root scan (spec.md §4.4).
func (t *Thread) snapshotRoots() []Value {
	roots := make([]Value, 0, len(t.Stack)+len(t.Frames)*bytecode.NumRegisters)
	roots = append(roots, t.Stack...)
	for _, f := range t.Frames {
		roots = append(roots, f.Regs[:]...)
	}
	return roots
}
