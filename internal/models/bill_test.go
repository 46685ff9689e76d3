package models

import "testing"

func TestBillStatusTransitions(t *testing.T) {
	tests := []struct {
		from BillStatus
		to   BillStatus
		want bool
	}{
		{StatusEditing, StatusActive, true},
		{StatusActive, StatusComplete, true},
		{StatusEditing, StatusComplete, false}, // no skipping
		{StatusActive, StatusEditing, false},   // no going back
		{StatusComplete, StatusActive, false},
		{StatusComplete, StatusEditing, false},
		{StatusComplete, StatusComplete, false},
		{StatusEditing, StatusEditing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParticipantEligible(t *testing.T) {
	tests := []struct {
		name string
		p    Participant
		want bool
	}{
		{"done with name", Participant{Name: "Alice", Status: StatusDone}, true},
		{"done without name", Participant{Status: StatusDone}, false},
		{"selecting with name", Participant{Name: "Alice", Status: StatusSelecting}, false},
		{"selecting without name", Participant{Status: StatusSelecting}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Eligible(); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
