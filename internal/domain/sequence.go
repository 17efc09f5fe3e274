package domain

import "sync"

// Sequence hands out question order numbers for one batch. Numbers are
// strictly increasing and gap-free over the questions actually emitted.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// NewSequence returns a sequence whose first number is start.
func NewSequence(start int) *Sequence {
	return &Sequence{next: start}
}

// Peek returns the number the next call to Next will hand out.
func (s *Sequence) Peek() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Next allocates and returns the next number.
func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n
}
