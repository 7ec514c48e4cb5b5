package utility

import (
	"sync"
	"testing"
)

func TestUtility_NewRunID(t *testing.T) {
	id1 := NewRunID()
	id2 := NewRunID()

	if id1 == id2 {
		t.Error("Expected distinct RunIDs")
	}

	if id1.Version() != 7 {
		t.Errorf("Expected UUID v7, got v%d", id1.Version())
	}
}

func TestUtility_ParseRunID(t *testing.T) {
	id := NewRunID()

	parsed, err := ParseRunID(id.String())
	if err != nil {
		t.Fatalf("ParseRunID returned error: %v", err)
	}
	if parsed != id {
		t.Errorf("ParseRunID = %s; want %s", parsed, id)
	}

	if _, err := ParseRunID("not-a-run-id"); err == nil {
		t.Error("Expected error for malformed RunID")
	}
}

func TestUtility_NewRunIDConcurrent(t *testing.T) {
	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	results := make([]RunID, goroutines)

	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			results[idx] = NewRunID()
		}(i)
	}

	wg.Wait()

	seen := make(map[RunID]bool, goroutines)
	for i, id := range results {
		if seen[id] {
			t.Errorf("Goroutine %d got duplicate RunID %s", i, id)
		}
		seen[id] = true
	}
}

func BenchmarkUtility_NewRunID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewRunID()
	}
}
