package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func recurringWindow(dayOfWeek int, startTime, endTime string) *domain.Availability {
	st := types.TimeString(startTime)
	et := types.TimeString(endTime)
	return &domain.Availability{
		Kind:      domain.AvailabilityRecurring,
		DayOfWeek: ptr.Ptr(dayOfWeek),
		StartTime: &st,
		EndTime:   &et,
	}
}

func oneOffWindow(startDate, endDate time.Time) *domain.Availability {
	return &domain.Availability{
		Kind:      domain.AvailabilityOneOff,
		StartDate: &startDate,
		EndDate:   &endDate,
	}
}

func TestIntervalPermitted_EmptySetMeansUnrestricted(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	assert.True(t, IntervalPermitted(nil, start, end))
	assert.True(t, IntervalPermitted([]*domain.Availability{}, start, end))
}

func TestIntervalPermitted_Recurring(t *testing.T) {
	// 2 марта 2026, понедельник (weekday=1)
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	window := []*domain.Availability{recurringWindow(1, "09:00", "17:00")}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "внутри окна",
			start: monday.Add(10 * time.Hour),
			end:   monday.Add(10*time.Hour + 30*time.Minute),
			want:  true,
		},
		{
			name:  "границы окна включительно",
			start: monday.Add(9 * time.Hour),
			end:   monday.Add(17 * time.Hour),
			want:  true,
		},
		{
			name:  "начало раньше окна",
			start: monday.Add(8*time.Hour + 30*time.Minute),
			end:   monday.Add(9*time.Hour + 30*time.Minute),
			want:  false,
		},
		{
			name:  "конец позже окна",
			start: monday.Add(16*time.Hour + 45*time.Minute),
			end:   monday.Add(17*time.Hour + 15*time.Minute),
			want:  false,
		},
		{
			name:  "другой день недели",
			start: monday.AddDate(0, 0, 1).Add(10 * time.Hour),
			end:   monday.AddDate(0, 0, 1).Add(10*time.Hour + 30*time.Minute),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalPermitted(window, tt.start, tt.end))
		})
	}
}

func TestIntervalPermitted_RecurringCrossMidnight(t *testing.T) {
	// Интервал 23:30 пн → 00:30 вт не совпадает даже с окном на весь день:
	// минуты обеих границ попали бы в окно, но конец на другой UTC-дате
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	window := []*domain.Availability{recurringWindow(1, "00:00", "23:59")}

	start := monday.Add(23*time.Hour + 30*time.Minute)
	end := monday.AddDate(0, 0, 1).Add(30 * time.Minute)

	assert.False(t, IntervalPermitted(window, start, end))
}

func TestIntervalPermitted_RecurringMalformedTime(t *testing.T) {
	// Некорректный HH:MM делает запись несовпадающей, а не ошибкой
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	window := []*domain.Availability{recurringWindow(1, "garbage", "17:00")}

	start := monday.Add(10 * time.Hour)
	end := start.Add(30 * time.Minute)

	assert.False(t, IntervalPermitted(window, start, end))
}

func TestIntervalPermitted_OneOff(t *testing.T) {
	rangeStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 3, 6, 23, 59, 0, 0, time.UTC)
	window := []*domain.Availability{oneOffWindow(rangeStart, rangeEnd)}

	inside := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	assert.True(t, IntervalPermitted(window, inside, inside.Add(time.Hour)))

	// Границы диапазона включительно
	assert.True(t, IntervalPermitted(window, rangeStart, rangeStart.Add(time.Hour)))

	// Конец интервала за пределами диапазона
	outside := time.Date(2026, 3, 6, 23, 30, 0, 0, time.UTC)
	assert.False(t, IntervalPermitted(window, outside, outside.Add(time.Hour)))
}

func TestIntervalPermitted_AnyWindowSuffices(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	windows := []*domain.Availability{
		recurringWindow(1, "09:00", "12:00"),
		recurringWindow(1, "14:00", "18:00"),
	}

	afternoon := monday.Add(15 * time.Hour)
	assert.True(t, IntervalPermitted(windows, afternoon, afternoon.Add(time.Hour)))

	// Обеденный перерыв не покрыт ни одним окном
	lunch := monday.Add(12*time.Hour + 30*time.Minute)
	assert.False(t, IntervalPermitted(windows, lunch, lunch.Add(time.Hour)))
}

func TestStrictOverlap(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Пересечение
	assert.True(t, StrictOverlap(base, base.Add(time.Hour), base.Add(30*time.Minute), base.Add(90*time.Minute)))

	// Касание концов не считается пересечением
	assert.False(t, StrictOverlap(base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.False(t, StrictOverlap(base.Add(time.Hour), base.Add(2*time.Hour), base, base.Add(time.Hour)))

	// Полное вложение
	assert.True(t, StrictOverlap(base, base.Add(2*time.Hour), base.Add(30*time.Minute), base.Add(time.Hour)))
}

func TestTimeOffOverlaps_BoundariesInclusive(t *testing.T) {
	off := &domain.TimeOff{
		StartAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
	}

	// Касание конца выходного началом интервала блокирует
	require.True(t, off.Overlaps(off.EndAt, off.EndAt.Add(time.Hour)))

	// Касание начала выходного концом интервала блокирует
	require.True(t, off.Overlaps(off.StartAt.Add(-time.Hour), off.StartAt))

	// Интервал целиком до выходного
	require.False(t, off.Overlaps(off.StartAt.Add(-2*time.Hour), off.StartAt.Add(-time.Hour)))
}
