package vmrt

import (
	"sync"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
)

// HeapHandle is a (generation, index) pair identifying one arena slot
// (REDESIGN FLAG: "arena + generational index" in place of
// spec.md §3.11's base doubly-linked list of raw pointers). A handle whose
// generation no longer matches the slot's current generation refers to a
// freed-and-reused object and is treated as dangling.
type HeapHandle struct {
	Generation uint32
	Index      uint32
}

type objKind byte

const (
	objString objKind = iota
	objArray
	objInstance
	objTypeInfo
	objUserData
)

// heapObj is one arena slot's payload. Only the fields matching kind are
// meaningful; inUse distinguishes a live slot from one sitting on the free
// list, and marked is the GC's single mark bit (spec.md §8: "after GC,
// marked-bit = false on every surviving H" — sweep clears it again once a
// collection finishes).
type heapObj struct {
	kind       objKind
	generation uint32
	inUse      bool
	marked     bool

	str string // objString

	elems []Value // objArray

	typeName      string   // objInstance, objTypeInfo
	memberNames   []string // objInstance, objTypeInfo
	memberHashes  []uint32 // objInstance
	members       []Value  // objInstance
	hasPrototype  bool
	prototype     HeapHandle

	userData interface{} // objUserData
}

// Heap is an arena of heap objects, swept with a free list instead of
// returning slots to the Go allocator (REDESIGN FLAG above). Allocation is
// serialized by mu so it is atomic with respect to a concurrent collection
// (spec.md §5: "allocation must be atomic with respect to GC"); this
// trades fine-grained per-thread allocation concurrency for a heap whose
// locking discipline fits in one field, which is an acceptable choice here
// since the spec leaves lock discipline an implementation detail.
type Heap struct {
	mu       sync.Mutex
	arena    []heapObj
	freeList []uint32
	liveCount int
	allocSinceGC int
	gcThreshold  int
}

// NewHeap returns an empty heap whose gcThreshold starts at 1024: a
// collection becomes due once the live-object count reaches it, and a
// sweep that leaves at least half that many objects live doubles it
// (spec.md §4.4: "collection may run at allocation sites when a per-heap
// threshold is crossed").
func NewHeap() *Heap {
	return &Heap{gcThreshold: 1024}
}

// LiveCount returns the number of currently-allocated (not freed) objects.
func (h *Heap) LiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.liveCount
}

func (h *Heap) alloc(o heapObj) HeapHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	o.inUse = true
	o.marked = false

	if n := len(h.freeList); n > 0 {
		idx := h.freeList[n-1]
		h.freeList = h.freeList[:n-1]
		gen := h.arena[idx].generation + 1
		o.generation = gen
		h.arena[idx] = o
		h.liveCount++
		return HeapHandle{Generation: gen, Index: idx}
	}

	o.generation = 1
	h.arena = append(h.arena, o)
	h.liveCount++
	return HeapHandle{Generation: 1, Index: uint32(len(h.arena) - 1)}
}

// get resolves a handle to its live object, returning ok=false if the
// handle is stale (its slot was swept and possibly reused).
func (h *Heap) get(handle HeapHandle) (*heapObj, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.getLocked(handle)
}

func (h *Heap) getLocked(handle HeapHandle) (*heapObj, bool) {
	if int(handle.Index) >= len(h.arena) {
		return nil, false
	}
	o := &h.arena[handle.Index]
	if !o.inUse || o.generation != handle.Generation {
		return nil, false
	}
	return o, true
}

// NewString allocates an immutable heap string (spec.md §3.11).
func (h *Heap) NewString(s string) HeapHandle {
	return h.alloc(heapObj{kind: objString, str: s})
}

// NewArray allocates a heap array of n null-initialized elements.
func (h *Heap) NewArray(n int) HeapHandle {
	elems := make([]Value, n)
	return h.alloc(heapObj{kind: objArray, elems: elems})
}

// NewInstance allocates a heap object whose members are FNV-1-hashed at
// creation time (spec.md §4.5), one null slot per name, in the fixed order
// typeName's type-info lists them.
func (h *Heap) NewInstance(typeName string, memberNames []string) HeapHandle {
	hashes := make([]uint32, len(memberNames))
	for i, n := range memberNames {
		hashes[i] = bytecode.HashMemberName(n)
	}
	return h.alloc(heapObj{
		kind:         objInstance,
		typeName:     typeName,
		memberNames:  append([]string(nil), memberNames...),
		memberHashes: hashes,
		members:      make([]Value, len(memberNames)),
	})
}

// NewTypeInfo allocates a reflection record for a LOAD_TYPE static slot.
func (h *Heap) NewTypeInfo(typeName string, memberNames []string) HeapHandle {
	return h.alloc(heapObj{kind: objTypeInfo, typeName: typeName, memberNames: memberNames})
}

// NewUserData wraps an arbitrary embedder-owned value as a heap object, so
// it participates in GC rooting and identity comparison like any other
// heap-pointer value.
func (h *Heap) NewUserData(v interface{}) HeapHandle {
	return h.alloc(heapObj{kind: objUserData, userData: v})
}

func (h *Heap) String(handle HeapHandle) (string, bool) {
	o, ok := h.get(handle)
	if !ok || o.kind != objString {
		return "", false
	}
	return o.str, true
}

func (h *Heap) ArrayLen(handle HeapHandle) (int, bool) {
	o, ok := h.get(handle)
	if !ok || o.kind != objArray {
		return 0, false
	}
	return len(o.elems), true
}

func (h *Heap) ArrayGet(handle HeapHandle, i int) (Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.getLocked(handle)
	if !ok || o.kind != objArray {
		return Value{}, newRuntimeError(ErrNullReference, "array access on non-array heap value")
	}
	if i < 0 || i >= len(o.elems) {
		return Value{}, newRuntimeError(ErrOutOfRange, "array index %d out of range [0,%d)", i, len(o.elems))
	}
	return o.elems[i], nil
}

func (h *Heap) ArraySet(handle HeapHandle, i int, v Value) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.getLocked(handle)
	if !ok || o.kind != objArray {
		return newRuntimeError(ErrNullReference, "array store on non-array heap value")
	}
	if i < 0 || i >= len(o.elems) {
		return newRuntimeError(ErrOutOfRange, "array index %d out of range [0,%d)", i, len(o.elems))
	}
	o.elems[i] = v
	return nil
}

func (h *Heap) MemberByIndex(handle HeapHandle, idx int) (Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.getLocked(handle)
	if !ok || o.kind != objInstance {
		return Value{}, newRuntimeError(ErrNullReference, "member access on non-object heap value")
	}
	if idx < 0 || idx >= len(o.members) {
		return Value{}, newRuntimeError(ErrOutOfRange, "member index %d out of range [0,%d)", idx, len(o.members))
	}
	return o.members[idx], nil
}

func (h *Heap) SetMemberByIndex(handle HeapHandle, idx int, v Value) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.getLocked(handle)
	if !ok || o.kind != objInstance {
		return newRuntimeError(ErrNullReference, "member store on non-object heap value")
	}
	if idx < 0 || idx >= len(o.members) {
		return newRuntimeError(ErrOutOfRange, "member index %d out of range [0,%d)", idx, len(o.members))
	}
	o.members[idx] = v
	return nil
}

// memberByHashLocked walks the prototype chain (spec.md §4.5: "the
// prototype chain is a linked list of objects; member resolution walks
// along it, stopping at the first match"), returning
// ErrMemberNotFound if the hash matches nothing anywhere on the chain.
func (h *Heap) memberByHashLocked(handle HeapHandle, hash uint32) (Value, error) {
	cur := handle
	for depth := 0; depth < 1<<16; depth++ {
		o, ok := h.getLocked(cur)
		if !ok || o.kind != objInstance {
			return Value{}, newRuntimeError(ErrNullReference, "member access on non-object heap value")
		}
		for i, mh := range o.memberHashes {
			if mh == hash {
				return o.members[i], nil
			}
		}
		if !o.hasPrototype {
			break
		}
		cur = o.prototype
	}
	return Value{}, newRuntimeError(ErrMemberNotFound, "no member with hash 0x%08x", hash)
}

func (h *Heap) MemberByHash(handle HeapHandle, hash uint32) (Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.memberByHashLocked(handle, hash)
}

func (h *Heap) SetMemberByHash(handle HeapHandle, hash uint32, v Value) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	cur := handle
	for depth := 0; depth < 1<<16; depth++ {
		o, ok := h.getLocked(cur)
		if !ok || o.kind != objInstance {
			return newRuntimeError(ErrNullReference, "member store on non-object heap value")
		}
		for i, mh := range o.memberHashes {
			if mh == hash {
				o.members[i] = v
				return nil
			}
		}
		if !o.hasPrototype {
			break
		}
		cur = o.prototype
	}
	return newRuntimeError(ErrMemberNotFound, "no member with hash 0x%08x", hash)
}

// HasMemberHash backs the HAS_MEM_HASH duck-typing probe (spec.md §4.5):
// it never errors, reporting false for a non-object handle or an absent
// member instead.
func (h *Heap) HasMemberHash(handle HeapHandle, hash uint32) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.memberByHashLocked(handle, hash)
	return err == nil
}

func (h *Heap) SetPrototype(handle, proto HeapHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if o, ok := h.getLocked(handle); ok {
		o.hasPrototype = true
		o.prototype = proto
	}
}

// MemberNames returns an instance's member names in declaration order, used
// by pkg/ace/natives/acegrpc to convert a heap instance to and from a
// dynamic protobuf message field-by-field.
func (h *Heap) MemberNames(handle HeapHandle) ([]string, bool) {
	o, ok := h.get(handle)
	if !ok || o.kind != objInstance {
		return nil, false
	}
	return append([]string(nil), o.memberNames...), true
}

func (h *Heap) UserData(handle HeapHandle) (interface{}, bool) {
	o, ok := h.get(handle)
	if !ok || o.kind != objUserData {
		return nil, false
	}
	return o.userData, true
}
