package vmrt

import (
	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/google/uuid"
)

// VM holds everything a compiled bytecode.File's threads share: the code
// stream, the static-object (constant) table, the mutable global-slot
// table ("static" storage method of spec.md §3.9, distinct from the
// static-object table), and the heap. Grounded on the teacher's VM struct
// in internal/vm/vm.go for the "one struct bundling code + constants +
// globals + heap, handed to every running call" shape; its trait
// registries, debugger hook and evaluator bridge have no counterpart here
// since this machine has no tree-walking fallback path.
type VM struct {
	ID uuid.UUID

	Code    []byte
	Statics []bytecode.StaticObject
	Heap    *Heap

	Globals []Value

	typeInfoCache map[int]HeapHandle

	threads []*Thread
}

// NewVM prepares a VM to execute file, but runs nothing yet (spec.md §6:
// the main instruction stream begins right after the static-object
// prelude, which bytecode.Decode/File already strips out into Statics).
func NewVM(file *bytecode.File) *VM {
	return &VM{
		ID:            uuid.New(),
		Code:          file.Code,
		Statics:       file.Statics,
		Heap:          NewHeap(),
		typeInfoCache: make(map[int]HeapHandle),
	}
}

func (vm *VM) ensureGlobal(idx int) {
	for len(vm.Globals) <= idx {
		vm.Globals = append(vm.Globals, Null())
	}
}

// Params is the native call bundle of spec.md §6: the instruction handler
// reaches the VM state and the calling thread, plus the pushed argument
// vector. A native function must write its result into Result (copied
// into the caller's register 0 once it returns) or return a non-nil error
// to be raised as a catchable exception, and must not retain Args past
// return. Args is a copy of the pushed arguments, which CALL removes from
// the operand stack before the native runs.
type Params struct {
	VM     *VM
	Thread *Thread
	Args   []Value
	Result Value
}

// Run executes file from its first byte (address 0) on a single new
// thread and blocks until it halts, matching cmd/ace's "compile ... write
// a bytecode file" / embedder's simplest use case: one thread, run to
// completion.
func (vm *VM) Run() error {
	t := vm.Spawn(0)
	return vm.RunThread(t)
}

// Spawn creates a new thread positioned at entry and registers it with the
// VM (so a GC triggered by any thread roots-scans every thread), without
// starting it — the caller drives it via RunThread or the cooperative
// scheduler in schedule.go.
func (vm *VM) Spawn(entry uint32) *Thread {
	t := NewThread(entry)
	vm.threads = append(vm.threads, t)
	return t
}

// RunThread steps t until it halts (EXIT), raises an uncaught exception,
// or its pending cancellation fires with no try-frame left to catch it.
func (vm *VM) RunThread(t *Thread) error {
	for !t.Done {
		if err := vm.step(t); err != nil {
			t.Done = true
			t.Err = err
			return err
		}
	}
	return t.Err
}

// collectGarbage gathers roots from every thread the VM knows about plus
// the global-slot table and runs a full collection (spec.md §4.4 root
// set).
func (vm *VM) collectGarbage() {
	var roots []Value
	roots = append(roots, vm.Globals...)
	for _, t := range vm.threads {
		roots = append(roots, t.snapshotRoots()...)
	}
	vm.Heap.Collect(roots)
}

// maybeCollect is called at the allocation suspension points (NEW,
// NEW_ARRAY) per spec.md §4.4.
func (vm *VM) maybeCollect() {
	if vm.Heap.ShouldCollect() {
		vm.collectGarbage()
	}
}
