package ops

const slabChunk = 64

// Slab is a per-frame arena for values of one type. Pointers returned by
// Alloc stay valid until Reset.
type Slab[T any] struct {
	chunks [][]T
	n      int
}

// Alloc returns a pointer to a zeroed T.
func (s *Slab[T]) Alloc() *T {
	c, i := s.n/slabChunk, s.n%slabChunk
	if c == len(s.chunks) {
		s.chunks = append(s.chunks, make([]T, slabChunk))
	}
	s.n++
	p := &s.chunks[c][i]
	var zero T
	*p = zero
	return p
}

// Len returns the number of live values.
func (s *Slab[T]) Len() int {
	return s.n
}

// Reset releases all values. The backing memory is reused by later
// allocations.
func (s *Slab[T]) Reset() {
	var zero T
	for i := 0; i < s.n; i++ {
		s.chunks[i/slabChunk][i%slabChunk] = zero
	}
	s.n = 0
}
