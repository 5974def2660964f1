package emit

// StackAllocator is the single-counter operand-stack slot allocator of
// spec.md §4.3: a local declaration claims and increments it, a call
// argument push increments it and the matching pop decrements it, and a
// function body is expected to balance its own net claim to zero by the
// time it returns.
type StackAllocator struct {
	cursor int
}

// Current returns the next free slot index.
func (s *StackAllocator) Current() int { return s.cursor }

// Claim reserves the next slot for a local declaration and returns its
// index.
func (s *StackAllocator) Claim() int {
	slot := s.cursor
	s.cursor++
	return slot
}

// Push reserves the next slot for a pushed value (e.g. a call argument or
// a left operand saved across a side-effecting right operand).
func (s *StackAllocator) Push() int {
	slot := s.cursor
	s.cursor++
	return slot
}

// Pop releases the most recently pushed slot.
func (s *StackAllocator) Pop() {
	s.cursor--
}

// Mark snapshots the current cursor, to be restored by Reset when a
// scope (block, function body) exits and its locals go out of scope.
func (s *StackAllocator) Mark() int { return s.cursor }

// Reset restores the cursor to a previously Marked value.
func (s *StackAllocator) Reset(mark int) { s.cursor = mark }
