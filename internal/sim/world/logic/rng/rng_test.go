package rng

import "testing"

func TestSameSeedSameStream(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("stream diverged at %d: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("out of range at %d: %v", i, x)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same > 1 {
		t.Fatalf("seeds 1 and 2 produced %d identical draws", same)
	}
}

func TestIntBounds(t *testing.T) {
	r := New(7)
	for i := 0; i < 5000; i++ {
		v := r.Int(6)
		if v < 0 || v >= 6 {
			t.Fatalf("Int(6) out of range: %d", v)
		}
	}
	calls := r.Calls()
	if got := r.Int(0); got != 0 {
		t.Fatalf("Int(0) = %d", got)
	}
	if r.Calls() != calls {
		t.Fatalf("Int(0) consumed a draw")
	}
}

func TestInRange(t *testing.T) {
	r := New(-3)
	for i := 0; i < 1000; i++ {
		v := r.InRange(60, 300)
		if v < 60 || v >= 300 {
			t.Fatalf("InRange out of bounds: %v", v)
		}
	}
}

func TestRestoreContinuesStream(t *testing.T) {
	a := New(99)
	for i := 0; i < 37; i++ {
		a.Next()
	}
	b := Restore(a.State())
	for i := 0; i < 100; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("restored stream diverged at %d", i)
		}
	}
	if a.Calls() != b.Calls() {
		t.Fatalf("call counts differ: %d vs %d", a.Calls(), b.Calls())
	}
}
