package worldtest

import (
	"testing"
)

func TestDeterminism_SameSeedSameDigests(t *testing.T) {
	h1 := NewHarness(t, 42)
	h2 := NewHarness(t, 42)
	for i := 0; i < 5000; i++ {
		a := h1.Step(Wander(i))
		b := h2.Step(Wander(i))
		if a.Digest != b.Digest {
			t.Fatalf("digest mismatch at tick %d", a.Tick)
		}
	}
}

func TestDeterminism_SeedsDiverge(t *testing.T) {
	seen := map[string]int64{}
	for _, seed := range []int64{0, 1, 2, 42, -7, 2147483647, -2147483648} {
		h := NewHarness(t, seed)
		d := h.Step(Idle(0)).Digest
		if prev, ok := seen[d]; ok {
			t.Fatalf("seeds %d and %d share digest", prev, seed)
		}
		seen[d] = seed
	}
}
