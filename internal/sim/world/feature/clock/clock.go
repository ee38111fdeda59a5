package clock

import "math"

type Phase string

const (
	PhaseDawn  Phase = "DAWN"
	PhaseDay   Phase = "DAY"
	PhaseDusk  Phase = "DUSK"
	PhaseNight Phase = "NIGHT"
)

// DefaultTimeScale makes one real minute one game hour.
const DefaultTimeScale = 60.0

const hoursPerDay = 24

type TimeOfDay struct {
	Hour float64 `json:"hour"`
	Day  uint32  `json:"day"`
}

func Start() TimeOfDay { return TimeOfDay{Hour: 8, Day: 1} }

// Phase is derived from Hour and never stored.
func (t TimeOfDay) Phase() Phase { return PhaseAt(t.Hour) }

func PhaseAt(hour float64) Phase {
	switch {
	case hour >= 5 && hour < 7:
		return PhaseDawn
	case hour >= 7 && hour < 18:
		return PhaseDay
	case hour >= 18 && hour < 20:
		return PhaseDusk
	default:
		return PhaseNight
	}
}

// Advance moves the clock forward by dt real seconds. timeScale is game
// seconds per real second.
func Advance(t TimeOfDay, dt, timeScale float64) TimeOfDay {
	if !(dt > 0) || !(timeScale > 0) || math.IsInf(dt, 0) {
		return t
	}
	t.Hour += dt * timeScale / 3600
	if t.Hour >= hoursPerDay {
		days := math.Floor(t.Hour / hoursPerDay)
		t.Hour -= days * hoursPerDay
		t.Day += uint32(days)
	}
	return t
}
