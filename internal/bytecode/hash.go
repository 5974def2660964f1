package bytecode

// HashMemberName computes the FNV-1 (not FNV-1a) 32-bit hash of a member
// name, shared by internal/emit (to encode LOAD_MEMBER_HASH/MOV_MEM_HASH
// operands at compile time) and internal/vmrt (to hash an object's member
// names into its runtime hash table) so the two always agree (spec.md
// §3.11, §4.5).
func HashMemberName(name string) uint32 {
	const (
		offsetBasis = 2166136261
		prime       = 16777619
	)
	h := uint32(offsetBasis)
	for i := 0; i < len(name); i++ {
		h *= prime
		h ^= uint32(name[i])
	}
	return h
}
