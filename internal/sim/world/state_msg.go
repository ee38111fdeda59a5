package world

import "reckoning.game/internal/protocol"

// StateMsg renders a snapshot as the STATE wire message.
func StateMsg(s Snapshot) protocol.StateMsg {
	p := s.Player
	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            s.Tick,
		Digest:          s.Digest,
		Phase:           string(s.Phase),
		Player: protocol.PlayerState{
			Pos:        p.Pos.ToArray(),
			Health:     p.Health.Current,
			MaxHealth:  p.Health.Maximum,
			Stamina:    p.Stamina.Current,
			MaxStamina: p.Stamina.Maximum,
			Gold:       p.Stats.Gold,
			Score:      p.Stats.Score,
			Level:      p.Stats.Level,
			Experience: p.Stats.Experience,
			ExpToNext:  p.Stats.ExpToNext,
			Mana:       p.Stats.Mana,
			MaxMana:    p.Stats.MaxMana,
		},
		World: protocol.WorldState{
			Hour:             s.Time.Hour,
			Day:              s.Time.Day,
			DayPhase:         string(s.DayPhase),
			Weather:          string(s.Weather.Kind),
			Intensity:        s.Weather.Intensity,
			WindSpeed:        s.Weather.WindSpeed,
			WindAngle:        s.Weather.WindAngle,
			Biome:            string(s.Biome),
			Difficulty:       s.Difficulty,
			EnemiesDefeated:  s.EnemiesDefeated,
			QuestsCompleted:  s.QuestsCompleted,
			DistanceTraveled: s.DistanceTraveled,
			Anomalies:        s.Anomalies,
		},
		Enemies: make([]protocol.EnemyState, 0, len(s.Enemies)),
		Quests:  make([]protocol.QuestState, 0, len(s.Quests)),
	}
	for _, e := range s.Enemies {
		msg.Enemies = append(msg.Enemies, protocol.EnemyState{
			ID:        e.ID,
			Kind:      e.Kind,
			Pos:       e.Pos.ToArray(),
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			State:     string(e.State),
		})
	}
	for _, q := range s.Quests {
		msg.Quests = append(msg.Quests, protocol.QuestState{
			ID:          q.ID,
			Kind:        string(q.Kind),
			Description: q.Description,
			Target:      q.Target,
			Current:     q.Current,
			RewardGold:  q.RewardGold,
			RewardXP:    q.RewardXP,
		})
	}
	for _, ev := range s.Events {
		e := protocol.GameEvent{"t": ev.Tick, "type": string(ev.Kind)}
		if ev.Subject != "" {
			e["subject"] = ev.Subject
		}
		if ev.Amount != 0 {
			e["amount"] = ev.Amount
		}
		if ev.Detail != "" {
			e["detail"] = ev.Detail
		}
		msg.Events = append(msg.Events, e)
	}
	return msg
}
