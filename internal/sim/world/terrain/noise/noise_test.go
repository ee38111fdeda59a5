package noise

import (
	"math"
	"testing"
)

func TestFBM_Bounded(t *testing.T) {
	for i := 0; i < 2000; i++ {
		x := float64(i)*0.731 - 500
		z := float64(i)*-1.37 + 250
		v := FBM(x, z, 6, 2.2, 42)
		if v < -1 || v > 1 {
			t.Fatalf("fbm(%v,%v) = %v out of [-1,1]", x, z, v)
		}
	}
}

func TestFBM_Deterministic(t *testing.T) {
	a := FBM(12.5, -3.25, 4, 2.0, 100)
	b := FBM(12.5, -3.25, 4, 2.0, 100)
	if a != b {
		t.Fatalf("fbm not deterministic: %v vs %v", a, b)
	}
	if c := FBM(12.5, -3.25, 4, 2.0, 101); c == a {
		t.Fatalf("seed offset had no effect")
	}
}

func TestValue2D_ContinuousAcrossLattice(t *testing.T) {
	const eps = 1e-9
	for i := -20; i <= 20; i++ {
		for j := -20; j <= 20; j++ {
			x, z := float64(i), float64(j)+0.37
			left := Value2D(x-eps, z, 9)
			right := Value2D(x+eps, z, 9)
			if math.Abs(left-right) > 1e-6 {
				t.Fatalf("discontinuity at x=%v: %v vs %v", x, left, right)
			}
		}
	}
}

func TestFBM_DegenerateInputs(t *testing.T) {
	if got := FBM(1, 2, 0, 2, 0); got != 0 {
		t.Fatalf("zero octaves: got %v", got)
	}
	if got := FBM(math.NaN(), 2, 3, 2, 0); got != 0 {
		t.Fatalf("NaN coordinate: got %v", got)
	}
	if got := FBM(1.5, 2.5, 3, math.Inf(1), 0); math.IsNaN(got) {
		t.Fatalf("infinite lacunarity produced NaN")
	}
}
