package mathx

import (
	"math"
	"testing"
)

func TestHash2_Deterministic(t *testing.T) {
	if Hash2(7, 3, -4) != Hash2(7, 3, -4) {
		t.Fatalf("hash not deterministic")
	}
	if Hash2(7, 3, -4) == Hash2(8, 3, -4) {
		t.Fatalf("seed did not affect hash")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestFinite(t *testing.T) {
	if Finite(math.NaN()) || Finite(math.Inf(1)) || !Finite(0.5) {
		t.Fatalf("finite classification mismatch")
	}
}

func TestFloorInt(t *testing.T) {
	if got := FloorInt(-1.5); got != -2 {
		t.Fatalf("expected -2, got %d", got)
	}
	if got := FloorInt(1e30); got != math.MaxInt32 {
		t.Fatalf("expected saturation, got %d", got)
	}
}
