package model

import "testing"

func TestNewCharacterAssignsUniqueIDs(t *testing.T) {
	a := NewCharacter("Alice", 33, 1000)
	b := NewCharacter("Alice", 33, 1000)

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if a.ID == b.ID {
		t.Error("two characters must never share an id")
	}
}

func TestTotalGil(t *testing.T) {
	agg := CharacterWithRetainers{
		Character: Character{Name: "Alice", Gil: 1000},
		Retainers: []Retainer{
			{ID: 500, Name: "Bob", Gil: 300},
			{ID: 501, Name: "Carla", Gil: -50},
		},
	}
	if got := agg.TotalGil(); got != 1250 {
		t.Errorf("TotalGil() = %d, want 1250", got)
	}

	empty := CharacterWithRetainers{Character: Character{Gil: 42}}
	if got := empty.TotalGil(); got != 42 {
		t.Errorf("TotalGil() without retainers = %d, want 42", got)
	}
}
