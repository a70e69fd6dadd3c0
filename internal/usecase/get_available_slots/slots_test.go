package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func mondayWindow(start, end string) []*domain.Availability {
	st := types.TimeString(start)
	et := types.TimeString(end)
	return []*domain.Availability{{
		Kind:      domain.AvailabilityRecurring,
		DayOfWeek: ptr.Ptr(1),
		StartTime: &st,
		EndTime:   &et,
	}}
}

// 2 марта 2026, понедельник
var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestBuildSlots_WithinAvailabilityWindow(t *testing.T) {
	now := testDate.Add(-24 * time.Hour)

	slots := buildSlots(testDate, 60, mondayWindow("09:00", "12:00"), nil, nil, now)

	// Сетка с шагом 60 минут: 09:00, 10:00, 11:00 (слот 11:00-12:00 заканчивается
	// на границе окна включительно)
	require.Len(t, slots, 3)
	assert.Equal(t, testDate.Add(9*time.Hour), slots[0].StartAt)
	assert.Equal(t, testDate.Add(11*time.Hour), slots[2].StartAt)
	assert.Equal(t, testDate.Add(12*time.Hour), slots[2].EndAt)
}

func TestBuildSlots_UnrestrictedWithoutAvailability(t *testing.T) {
	now := testDate.Add(-24 * time.Hour)

	// Без записей доступности свободен весь день: 24 слота по 60 минут
	slots := buildSlots(testDate, 60, nil, nil, nil, now)
	assert.Len(t, slots, 24)
}

func TestBuildSlots_SkipsPast(t *testing.T) {
	now := testDate.Add(10*time.Hour + 31*time.Minute)

	slots := buildSlots(testDate, 60, mondayWindow("09:00", "13:00"), nil, nil, now)

	// 09:00 и 10:00 в прошлом, 11:00 и 12:00 остаются
	require.Len(t, slots, 2)
	assert.Equal(t, testDate.Add(11*time.Hour), slots[0].StartAt)
}

func TestBuildSlots_SkipsTimeOff(t *testing.T) {
	now := testDate.Add(-24 * time.Hour)
	timeOffs := []*domain.TimeOff{{
		StartAt: testDate.Add(10 * time.Hour),
		EndAt:   testDate.Add(11 * time.Hour),
	}}

	slots := buildSlots(testDate, 60, mondayWindow("09:00", "12:00"), timeOffs, nil, now)

	// Выходной блокирует и касающиеся слоты: 09:00-10:00 касается его начала,
	// 11:00-12:00 касается конца. Свободных слотов в окне не остается
	assert.Empty(t, slots)
}

func TestBuildSlots_SkipsActiveAppointments(t *testing.T) {
	now := testDate.Add(-24 * time.Hour)
	appointments := []*domain.Appointment{
		{
			Status:  domain.StatusConfirmed,
			StartAt: testDate.Add(9 * time.Hour),
			EndAt:   testDate.Add(10 * time.Hour),
		},
		{
			// Отмененная запись слот не занимает
			Status:  domain.StatusCancelled,
			StartAt: testDate.Add(10 * time.Hour),
			EndAt:   testDate.Add(11 * time.Hour),
		},
	}

	slots := buildSlots(testDate, 60, mondayWindow("09:00", "12:00"), nil, appointments, now)

	// 09:00 занят активной записью; 10:00 и 11:00 свободны (запись встык не мешает)
	require.Len(t, slots, 2)
	assert.Equal(t, testDate.Add(10*time.Hour), slots[0].StartAt)
	assert.Equal(t, testDate.Add(11*time.Hour), slots[1].StartAt)
}

func TestBuildSlots_NonPositiveDuration(t *testing.T) {
	assert.Nil(t, buildSlots(testDate, 0, nil, nil, nil, testDate))
	assert.Nil(t, buildSlots(testDate, -30, nil, nil, nil, testDate))
}
