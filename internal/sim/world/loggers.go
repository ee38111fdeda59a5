package world

//go:generate go tool mockgen -destination=./mocks/loggers_mock.go -package=mocks . TickLogger,EventLogger

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type EventLogger interface {
	WriteEvent(ev GameEvent) error
}

// TickLogEntry is everything needed to replay one simulated step: the
// sanitized delta, the sanitized input, the anomalies counted while
// sanitizing and the digest it produced.
type TickLogEntry struct {
	Tick      uint64  `json:"tick"`
	DT        float64 `json:"dt"`
	Input     Input   `json:"input"`
	Anomalies uint64  `json:"anomalies,omitempty"`
	Digest    string  `json:"digest"`
}

type EventKind string

const (
	EventPlayerDamaged  EventKind = "PLAYER_DAMAGED"
	EventPlayerDefeated EventKind = "PLAYER_DEFEATED"
	EventEnemyDamaged   EventKind = "ENEMY_DAMAGED"
	EventEnemyDefeated  EventKind = "ENEMY_DEFEATED"
	EventLevelUp        EventKind = "LEVEL_UP"
	EventQuestStarted   EventKind = "QUEST_STARTED"
	EventQuestCompleted EventKind = "QUEST_COMPLETED"
	EventRandom         EventKind = "RANDOM_EVENT"
	EventWeatherChanged EventKind = "WEATHER_CHANGED"
	EventDayStarted     EventKind = "DAY_STARTED"
	EventBiomeChanged   EventKind = "BIOME_CHANGED"
)

// GameEvent is a notable state change. Subject names the enemy, quest or
// random event involved.
type GameEvent struct {
	Tick    uint64    `json:"tick"`
	Kind    EventKind `json:"kind"`
	Subject string    `json:"subject,omitempty"`
	Amount  float64   `json:"amount,omitempty"`
	Detail  string    `json:"detail,omitempty"`
}

func (w *World) emit(kind EventKind, subject string, amount float64, detail string) {
	w.events = append(w.events, GameEvent{Tick: w.tick, Kind: kind, Subject: subject, Amount: amount, Detail: detail})
}
