package pipeline

import "sync/atomic"

// Sequence mints transaction identifiers starting at 1. The zero value is ready to use.
type Sequence struct {
	last atomic.Uint64
}

// Next returns the next identifier.
func (s *Sequence) Next() uint64 {
	return s.last.Add(1)
}

// Last returns the most recently issued identifier, or 0 if none was issued.
func (s *Sequence) Last() uint64 {
	return s.last.Load()
}
