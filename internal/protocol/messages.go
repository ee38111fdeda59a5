package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	RunID           string         `json:"run_id"`
	SessionID       string         `json:"session_id"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	TickRateHz int     `json:"tick_rate_hz"`
	Seed       int32   `json:"seed"`
	Difficulty string  `json:"difficulty"`
	TimeScale  float64 `json:"time_scale"`
	WorldBound float64 `json:"world_bound"`
}

type CatalogDigests struct {
	EnemiesDigest string `json:"enemies_digest"`
	EventsDigest  string `json:"events_digest"`
	TuningDigest  string `json:"tuning_digest,omitempty"`
}

// INPUT (client -> server). Move is an XZ direction with magnitude <= 1.
// Control is empty, PAUSE or RESUME.
type InputMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Seq             uint64     `json:"seq"`
	Move            [2]float64 `json:"move"`
	Attack          bool       `json:"attack,omitempty"`
	Control         string     `json:"control,omitempty"`
}

const (
	ControlPause  = "PAUSE"
	ControlResume = "RESUME"
)

// STATE (server -> client), one per tick.
type StateMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	Digest          string       `json:"digest"`
	Phase           string       `json:"phase"`
	Player          PlayerState  `json:"player"`
	World           WorldState   `json:"world"`
	Enemies         []EnemyState `json:"enemies"`
	Quests          []QuestState `json:"quests"`
	Events          []GameEvent  `json:"events,omitempty"`
	LastInputSeq    uint64       `json:"last_input_seq,omitempty"`
}

type PlayerState struct {
	Pos        [3]float64 `json:"pos"`
	Health     float64    `json:"health"`
	MaxHealth  float64    `json:"max_health"`
	Stamina    float64    `json:"stamina"`
	MaxStamina float64    `json:"max_stamina"`
	Gold       int        `json:"gold"`
	Score      int        `json:"score"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	ExpToNext  int        `json:"exp_to_next"`
	Mana       int        `json:"mana"`
	MaxMana    int        `json:"max_mana"`
}

type WorldState struct {
	Hour             float64 `json:"hour"`
	Day              uint32  `json:"day"`
	DayPhase         string  `json:"day_phase"`
	Weather          string  `json:"weather"`
	Intensity        float64 `json:"intensity"`
	WindSpeed        float64 `json:"wind_speed"`
	WindAngle        float64 `json:"wind_angle"`
	Biome            string  `json:"biome"`
	Difficulty       string  `json:"difficulty"`
	EnemiesDefeated  int     `json:"enemies_defeated"`
	QuestsCompleted  int     `json:"quests_completed"`
	DistanceTraveled float64 `json:"distance_traveled"`
	Anomalies        uint64  `json:"anomalies"`
}

type EnemyState struct {
	ID        int        `json:"id"`
	Kind      string     `json:"kind"`
	Pos       [3]float64 `json:"pos"`
	Health    float64    `json:"health"`
	MaxHealth float64    `json:"max_health"`
	State     string     `json:"state"`
}

type QuestState struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Target      int     `json:"target"`
	Current     float64 `json:"current"`
	RewardGold  int     `json:"reward_gold"`
	RewardXP    int     `json:"reward_xp"`
}

// GameEvent is a notable thing that happened during a tick.
type GameEvent map[string]any

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
