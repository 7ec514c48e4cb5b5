package simulation

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// Source yields standard normal variates, one per call.
type Source interface {
	NormFloat64() float64
}

// NewSeededSource returns a PCG backed stream that replays the same variates for the same seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewSource returns a stream seeded from the wall clock.
func NewSource() Source {
	return NewSeededSource(clockSeed())
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// NewLockedSource makes every draw of src atomic so the stream can be shared between goroutines.
// The lock covers a whole normal draw, which may consume several uint64 values.
func NewLockedSource(src Source) Source {
	return &lockedSource{src: src}
}

func (s *lockedSource) NormFloat64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.NormFloat64()
}

func clockSeed() uint64 {
	return uint64(time.Now().UnixNano()) // #nosec G115
}
