package model

type QuestKind string

const (
	QuestDefeatEnemies  QuestKind = "DEFEAT_ENEMIES"
	QuestTravelDistance QuestKind = "TRAVEL_DISTANCE"
	QuestCollectGold    QuestKind = "COLLECT_GOLD"
)

var QuestKinds = []QuestKind{QuestDefeatEnemies, QuestTravelDistance, QuestCollectGold}

// Quest progress is float so travel distance accumulates without rounding.
// Invariant: 0 <= Current <= Target.
type Quest struct {
	ID          string    `json:"id"`
	Kind        QuestKind `json:"kind"`
	Description string    `json:"description"`
	Target      int       `json:"target"`
	Current     float64   `json:"current"`
	RewardGold  int       `json:"reward_gold"`
	RewardXP    int       `json:"reward_xp"`
	Completed   bool      `json:"completed"`
}
