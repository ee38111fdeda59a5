package quests

import (
	"errors"
	"fmt"
	"math"

	"reckoning.game/internal/sim/world/kernel/model"
	"reckoning.game/internal/sim/world/logic/rng"
)

var ErrDuplicateQuest = errors.New("quest already active")

// Generate derives a quest from (level, seed). Equal inputs always yield an
// equal quest, id included.
func Generate(level int, seed int32) model.Quest {
	if level < 1 {
		level = 1
	}
	r := rng.New(seed ^ int32(uint32(level)*2654435761))
	kind := model.QuestKinds[r.Int(len(model.QuestKinds))]

	q := model.Quest{
		ID:   fmt.Sprintf("quest_%d_%d_%s", seed, level, kind),
		Kind: kind,
	}
	switch kind {
	case model.QuestDefeatEnemies:
		q.Target = 3 + int(math.Floor(float64(level)*1.5))
		q.Description = fmt.Sprintf("Defeat %d enemies", q.Target)
		q.RewardGold = q.Target * 10
		q.RewardXP = q.Target * 20
	case model.QuestTravelDistance:
		q.Target = 100 + level*50
		q.Description = fmt.Sprintf("Travel %d meters", q.Target)
		q.RewardGold = q.Target / 2
		q.RewardXP = int(math.Floor(float64(q.Target) / 1.5))
	case model.QuestCollectGold:
		q.Target = 50 + level*25
		q.Description = fmt.Sprintf("Collect %d gold", q.Target)
		q.RewardGold = q.Target / 2
		q.RewardXP = q.Target
	}
	return q
}

// Log is the active quest set, kept in insertion order.
type Log struct {
	Active []model.Quest
}

func (l *Log) Len() int { return len(l.Active) }

func (l *Log) Add(q model.Quest) error {
	for _, a := range l.Active {
		if a.ID == q.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateQuest, q.ID)
		}
	}
	l.Active = append(l.Active, q)
	return nil
}

// Progress credits amount to every active quest of kind. Quests that reach
// their target are marked completed, removed and returned so the caller can
// pay their rewards once.
func (l *Log) Progress(kind model.QuestKind, amount float64) []model.Quest {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return nil
	}
	var done []model.Quest
	kept := l.Active[:0]
	for _, q := range l.Active {
		if q.Kind == kind && !q.Completed {
			q.Current = math.Min(q.Current+amount, float64(q.Target))
			if q.Current >= float64(q.Target) {
				q.Completed = true
			}
		}
		if q.Completed {
			done = append(done, q)
			continue
		}
		kept = append(kept, q)
	}
	l.Active = kept
	return done
}
