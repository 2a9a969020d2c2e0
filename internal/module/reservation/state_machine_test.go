package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateMachine_CanTransition(t *testing.T) {
	sm := NewStateMachine()

	tests := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{ReservationStatus("unknown"), StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, sm.CanTransition(tt.from, tt.to))
		})
	}
}

func TestStateMachine_Transition(t *testing.T) {
	sm := NewStateMachine()

	t.Run("valid transition mutates status", func(t *testing.T) {
		res := &Reservation{Status: StatusPending}
		assert.NoError(t, sm.Transition(res, StatusConfirmed))
		assert.Equal(t, StatusConfirmed, res.Status)
	})

	t.Run("invalid transition leaves status unchanged", func(t *testing.T) {
		res := &Reservation{Status: StatusCompleted}
		err := sm.Transition(res, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StatusCompleted, res.Status)
	})
}

func TestStateMachine_GetAllowedTransitions(t *testing.T) {
	sm := NewStateMachine()

	assert.ElementsMatch(t, []ReservationStatus{StatusConfirmed, StatusCancelled}, sm.GetAllowedTransitions(StatusPending))
	assert.Empty(t, sm.GetAllowedTransitions(StatusCompleted))
	assert.Empty(t, sm.GetAllowedTransitions(StatusCancelled))
}
