// Package sparse provides a sparse set data structure for efficient
// membership testing over small dense integer universes.
//
// A sparse set supports O(1) insertion and membership testing while
// maintaining a dense list of its members, which also makes it cheap to
// clone — exactly the property the backtracking executor's per-path
// epsilon-visited set needs: every frame pushed across an epsilon
// transition carries its own copy of the visited set, and cloning must not
// become the dominant cost of the search.
package sparse

// Set is a set of uint32 values (NFA state ids) backed by a sparse/dense
// array pair. The universe size (the number of possible values) is fixed
// at construction.
type Set struct {
	sparse []uint32 // maps value -> index in dense (valid only if Contains)
	dense  []uint32 // the members, in insertion order
}

// New creates an empty Set over the universe [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, 8),
	}
}

// Contains reports whether value is a member of the set.
func (s *Set) Contains(value uint32) bool {
	i := s.sparse[value]
	return int(i) < len(s.dense) && s.dense[i] == value
}

// Insert adds value to the set. It is a no-op if value is already present.
func (s *Set) Insert(value uint32) {
	if s.Contains(value) {
		return
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
}

// Len returns the number of members currently in the set.
func (s *Set) Len() int {
	return len(s.dense)
}

// Clone returns an independent copy of the set. The clone shares no
// backing array with the receiver, so mutating one never affects the
// other — the property the DFS frame stack relies on when it copies the
// epsilon-visited set onto every pushed frame.
func (s *Set) Clone() *Set {
	clone := &Set{
		sparse: make([]uint32, len(s.sparse)),
		dense:  make([]uint32, len(s.dense)),
	}
	copy(clone.sparse, s.sparse)
	copy(clone.dense, s.dense)
	return clone
}
