package vmrt

import "strings"

// Inspect renders v as source-like text, resolving heap handles through h
// (value.go's Value.String stops at "<heap gen:idx>" since Value itself
// has no heap access).
func (h *Heap) Inspect(v Value) string {
	switch v.Kind {
	case KindHeapPointer, KindValueRef:
		return h.inspectHandle(v.Heap, map[uint64]bool{})
	default:
		return v.String()
	}
}

func (h *Heap) inspectHandle(handle HeapHandle, seen map[uint64]bool) string {
	key := uint64(handle.Generation)<<32 | uint64(handle.Index)
	if seen[key] {
		return "<cycle>"
	}
	seen[key] = true

	h.mu.Lock()
	o, ok := h.getLocked(handle)
	if !ok {
		h.mu.Unlock()
		return "<dangling>"
	}
	switch o.kind {
	case objString:
		s := o.str
		h.mu.Unlock()
		return `"` + s + `"`
	case objArray:
		elems := append([]Value(nil), o.elems...)
		h.mu.Unlock()
		parts := make([]string, len(elems))
		for i, el := range elems {
			parts[i] = h.Inspect(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case objInstance:
		names := o.memberNames
		members := append([]Value(nil), o.members...)
		typeName := o.typeName
		h.mu.Unlock()
		parts := make([]string, len(members))
		for i, m := range members {
			name := ""
			if i < len(names) {
				name = names[i]
			}
			parts[i] = name + ": " + h.Inspect(m)
		}
		return typeName + "{" + strings.Join(parts, ", ") + "}"
	case objTypeInfo:
		name := o.typeName
		h.mu.Unlock()
		return "<type " + name + ">"
	case objUserData:
		h.mu.Unlock()
		return "<user-data>"
	default:
		h.mu.Unlock()
		return "<?>"
	}
}

// Concat allocates a new heap string holding the concatenation of the two
// strings handle a and b resolve to. ADD on two heap-pointer strings uses
// this (dispatch.go), a small enrichment beyond spec.md's literal text:
// the source exposes no other way to build strings at runtime.
func (h *Heap) Concat(a, b HeapHandle) (HeapHandle, bool) {
	sa, ok := h.String(a)
	if !ok {
		return HeapHandle{}, false
	}
	sb, ok := h.String(b)
	if !ok {
		return HeapHandle{}, false
	}
	return h.NewString(sa + sb), true
}
