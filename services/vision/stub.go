package vision

import (
	"context"
	"sync"
)

// StubCounter is a development-only stand-in for the Gemini counter. It
// returns a fixed sequence of counts and must never be wired into the
// production path; it exists so the pipeline can be exercised end to end
// without vision credentials.
type StubCounter struct {
	Counts []int

	mu    sync.Mutex
	calls int
}

// CountPeople returns the next count from the fixed sequence, cycling when
// the sequence is exhausted. Deterministic, no randomness.
func (s *StubCounter) CountPeople(ctx context.Context, imageBytes []byte, mimeType string) (*PeopleCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	if len(s.Counts) > 0 {
		count = s.Counts[s.calls%len(s.Counts)]
	}
	s.calls++

	return &PeopleCount{
		Count:       count,
		Confidence:  1,
		Description: "stub estimate",
	}, nil
}
