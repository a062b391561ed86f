package core

import "testing"

func TestSession_AddTurnAndClone(t *testing.T) {
	s := NewSession("s1")
	s.AddTurn(TurnRecord{ID: "t1", Question: "q1", State: TurnComplete})

	clone := s.Clone()
	if clone == s {
		t.Error("Clone should be a different pointer")
	}

	clone.AddTurn(TurnRecord{ID: "t2"})
	if len(s.GetTurns()) != 1 {
		t.Error("Original should not have clone's new turn")
	}
}

func TestSession_GetTurnsIsCopy(t *testing.T) {
	s := NewSession("s2")
	s.AddTurn(TurnRecord{ID: "t1", Question: "hi"})
	all := s.GetTurns()
	all[0].Question = "changed"
	if s.GetTurns()[0].Question != "hi" {
		t.Error("turns slice should be copied on read")
	}

	last, ok := s.LastTurn()
	if !ok || last.ID != "t1" {
		t.Fatalf("unexpected last turn: %+v", last)
	}

	s.ClearTurns()
	if _, ok := s.LastTurn(); ok {
		t.Error("expected empty history after clear")
	}
}
