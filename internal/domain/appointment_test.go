package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRescheduled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},

		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusRescheduled, true},
		{StatusConfirmed, StatusPending, false},

		{StatusRescheduled, StatusConfirmed, true},
		{StatusRescheduled, StatusCancelled, true},
		{StatusRescheduled, StatusRescheduled, true},
		{StatusRescheduled, StatusCompleted, false},

		// Конечные статусы не имеют исходящих переходов
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCompleted, StatusRescheduled, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			appt := &Appointment{Status: tt.from}
			assert.Equal(t, tt.want, appt.CanTransitionTo(tt.to))
		})
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Appointment{Status: StatusRescheduled}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Appointment{Status: StatusNoShow}).IsActive())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusCancelled}).IsTerminal())
	assert.True(t, (&Appointment{Status: StatusCompleted}).IsTerminal())
	assert.True(t, (&Appointment{Status: StatusNoShow}).IsTerminal())
	assert.False(t, (&Appointment{Status: StatusPending}).IsTerminal())
	assert.False(t, (&Appointment{Status: StatusRescheduled}).IsTerminal())
}

func TestCanBeRescheduled(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).CanBeRescheduled())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).CanBeRescheduled())
	assert.True(t, (&Appointment{Status: StatusRescheduled}).CanBeRescheduled())
	assert.False(t, (&Appointment{Status: StatusCancelled}).CanBeRescheduled())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeRescheduled())
	assert.False(t, (&Appointment{Status: StatusNoShow}).CanBeRescheduled())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "cancelled", "completed", "no_show", "rescheduled"} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("unknown"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("PENDING"))
}
