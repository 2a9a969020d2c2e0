package reservation

import "fmt"

// StateMachine validates and executes reservation state transitions.
type StateMachine struct {
	transitions map[ReservationStatus][]ReservationStatus
}

// NewStateMachine creates a new reservation state machine.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		transitions: map[ReservationStatus][]ReservationStatus{
			StatusPending:   {StatusConfirmed, StatusCancelled},
			StatusConfirmed: {StatusCompleted, StatusCancelled},
			StatusCompleted: {}, // Terminal state
			StatusCancelled: {}, // Terminal state
		},
	}
}

// CanTransition checks if a transition from `from` to `to` is valid.
func (sm *StateMachine) CanTransition(from, to ReservationStatus) bool {
	allowed, ok := sm.transitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Transition attempts to transition a reservation to a new state.
func (sm *StateMachine) Transition(res *Reservation, to ReservationStatus) error {
	if !sm.CanTransition(res.Status, to) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, res.Status, to)
	}
	res.Status = to
	return nil
}

// GetAllowedTransitions returns all allowed transitions from the current state.
func (sm *StateMachine) GetAllowedTransitions(from ReservationStatus) []ReservationStatus {
	allowed, ok := sm.transitions[from]
	if !ok {
		return []ReservationStatus{}
	}
	result := make([]ReservationStatus, len(allowed))
	copy(result, allowed)
	return result
}
