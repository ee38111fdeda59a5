package clock

import (
	"math"
	"testing"
)

func TestAdvance_WrapsDay(t *testing.T) {
	start := TimeOfDay{Hour: 23.5, Day: 3}
	// dt*timeScale/3600 == 1.0
	got := Advance(start, 60, DefaultTimeScale)
	if math.Abs(got.Hour-0.5) > 1e-9 || got.Day != 4 {
		t.Fatalf("expected hour=0.5 day=4, got %+v", got)
	}
}

func TestAdvance_MultipleDays(t *testing.T) {
	got := Advance(TimeOfDay{Hour: 8, Day: 1}, 3600*50, 1)
	if math.Abs(got.Hour-10) > 1e-9 || got.Day != 3 {
		t.Fatalf("expected hour=10 day=3, got %+v", got)
	}
}

func TestAdvance_IgnoresBadDelta(t *testing.T) {
	start := Start()
	for _, dt := range []float64{-1, math.NaN(), math.Inf(1), 0} {
		if got := Advance(start, dt, DefaultTimeScale); got != start {
			t.Fatalf("dt=%v changed clock: %+v", dt, got)
		}
	}
}

func TestPhaseAt(t *testing.T) {
	cases := map[float64]Phase{
		4.99: PhaseNight,
		5:    PhaseDawn,
		6.99: PhaseDawn,
		7:    PhaseDay,
		17.9: PhaseDay,
		18:   PhaseDusk,
		19.9: PhaseDusk,
		20:   PhaseNight,
		0:    PhaseNight,
	}
	for h, want := range cases {
		if got := PhaseAt(h); got != want {
			t.Fatalf("hour %v: expected %s, got %s", h, want, got)
		}
	}
}
