package main

import (
	"math"
	"testing"

	"reckoning.game/internal/protocol"
)

func TestSteer_HeadsForNearestEnemy(t *testing.T) {
	st := protocol.StateMsg{
		Player: protocol.PlayerState{Pos: [3]float64{0, 0, 0}},
		Enemies: []protocol.EnemyState{
			{ID: 1, Pos: [3]float64{0, 0, 20}},
			{ID: 2, Pos: [3]float64{5, 0, 0}},
		},
	}
	in := steer(st)
	if in.Type != protocol.TypeInput || in.Attack {
		t.Fatalf("unexpected input %+v", in)
	}
	if math.Abs(in.Move[0]-1) > 1e-9 || math.Abs(in.Move[1]) > 1e-9 {
		t.Fatalf("expected move toward +x, got %v", in.Move)
	}
}

func TestSteer_AttacksInReach(t *testing.T) {
	st := protocol.StateMsg{
		Player:  protocol.PlayerState{Pos: [3]float64{3, 0, 3}},
		Enemies: []protocol.EnemyState{{ID: 1, Pos: [3]float64{4, 0, 3}}},
	}
	in := steer(st)
	if !in.Attack || in.Move != [2]float64{} {
		t.Fatalf("expected a standing attack, got %+v", in)
	}
}

func TestSteer_ReturnsHomeWithoutEnemies(t *testing.T) {
	in := steer(protocol.StateMsg{Player: protocol.PlayerState{Pos: [3]float64{0, 0, -10}}})
	if in.Attack || math.Abs(in.Move[1]-1) > 1e-9 {
		t.Fatalf("expected move toward origin, got %+v", in)
	}
	if in := steer(protocol.StateMsg{}); in.Move != [2]float64{} {
		t.Fatalf("expected no move at origin, got %v", in.Move)
	}
}
