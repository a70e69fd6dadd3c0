package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeScheduleRepo struct {
	availability []*domain.Availability
	timeOff      []*domain.TimeOff
}

func (f *fakeScheduleRepo) ListAvailabilityByStaff(_ context.Context, _ int64) ([]*domain.Availability, error) {
	return f.availability, nil
}

func (f *fakeScheduleRepo) FirstTimeOffOverlapping(_ context.Context, _ int64, start, end time.Time) (*domain.TimeOff, error) {
	for _, off := range f.timeOff {
		if off.Overlaps(start, end) {
			return off, nil
		}
	}
	return nil, nil
}

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (f *fakeAppointmentRepo) FindFirstOverlapping(_ context.Context, subject domain.ConflictSubject, subjectID int64, start, end time.Time, excludeID *int64) (*domain.Appointment, error) {
	for _, appt := range f.appointments {
		if !appt.IsActive() {
			continue
		}
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		switch subject {
		case domain.SubjectStaff:
			if appt.StaffID != subjectID {
				continue
			}
		case domain.SubjectClient:
			if appt.ClientID != subjectID {
				continue
			}
		}
		if StrictOverlap(appt.StartAt, appt.EndAt, start, end) {
			return appt, nil
		}
	}
	return nil, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestValidateInterval_TimeOffWinsOverAvailability(t *testing.T) {
	// 2 марта 2026, понедельник. Окно доступности покрывает интервал,
	// но выходной в тот же момент отклоняет его первым
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	scheduleRepo := &fakeScheduleRepo{
		availability: []*domain.Availability{recurringWindow(1, "09:00", "17:00")},
		timeOff: []*domain.TimeOff{{
			ID:      1,
			StartAt: start.Add(-time.Hour),
			EndAt:   start.Add(time.Hour),
			Reason:  ptr.Ptr("отпуск"),
		}},
	}

	checker := NewChecker(scheduleRepo, &fakeAppointmentRepo{}, noopLogger{})

	err := checker.ValidateInterval(context.Background(), 1, 2, start, end, nil)
	require.ErrorIs(t, err, ErrTimeOffBlocked)
	require.Contains(t, err.Error(), "отпуск")
}

func TestValidateInterval_OutsideAvailability(t *testing.T) {
	start := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	scheduleRepo := &fakeScheduleRepo{
		availability: []*domain.Availability{recurringWindow(1, "09:00", "17:00")},
	}

	checker := NewChecker(scheduleRepo, &fakeAppointmentRepo{}, noopLogger{})

	err := checker.ValidateInterval(context.Background(), 1, 2, start, end, nil)
	require.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestValidateInterval_StaffConflict(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	appointmentRepo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{{
			ID:      10,
			StaffID: 1,
			Status:  domain.StatusConfirmed,
			StartAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		}},
	}

	checker := NewChecker(&fakeScheduleRepo{}, appointmentRepo, noopLogger{})

	err := checker.ValidateInterval(context.Background(), 1, 2, start, end, nil)
	require.ErrorIs(t, err, ErrStaffConflict)
}

func TestValidateInterval_ClientConflict(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	// Запись другого сотрудника, но того же клиента
	appointmentRepo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{{
			ID:       11,
			StaffID:  99,
			ClientID: 2,
			Status:   domain.StatusPending,
			StartAt:  start,
			EndAt:    end,
		}},
	}

	checker := NewChecker(&fakeScheduleRepo{}, appointmentRepo, noopLogger{})

	err := checker.ValidateInterval(context.Background(), 1, 2, start, end, nil)
	require.ErrorIs(t, err, ErrClientConflict)
}

func TestValidateInterval_ExcludeSelf(t *testing.T) {
	// Перенос на интервал, пересекающийся только с самой записью, допустим
	start := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	appointmentRepo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{{
			ID:       10,
			StaffID:  1,
			ClientID: 2,
			Status:   domain.StatusConfirmed,
			StartAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			EndAt:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		}},
	}

	checker := NewChecker(&fakeScheduleRepo{}, appointmentRepo, noopLogger{})

	require.NoError(t, checker.ValidateInterval(context.Background(), 1, 2, start, end, ptr.Ptr(int64(10))))
}

func TestValidateInterval_TouchingIntervalsAllowed(t *testing.T) {
	// Запись встык к существующей не конфликтует
	existingEnd := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	appointmentRepo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{{
			ID:       12,
			StaffID:  1,
			ClientID: 5,
			Status:   domain.StatusConfirmed,
			StartAt:  existingEnd.Add(-time.Hour),
			EndAt:    existingEnd,
		}},
	}

	checker := NewChecker(&fakeScheduleRepo{}, appointmentRepo, noopLogger{})

	require.NoError(t, checker.ValidateInterval(context.Background(), 1, 2, existingEnd, existingEnd.Add(30*time.Minute), nil))
}

func TestValidateInterval_CancelledAppointmentIgnored(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	appointmentRepo := &fakeAppointmentRepo{
		appointments: []*domain.Appointment{{
			ID:       13,
			StaffID:  1,
			ClientID: 2,
			Status:   domain.StatusCancelled,
			StartAt:  start,
			EndAt:    end,
		}},
	}

	checker := NewChecker(&fakeScheduleRepo{}, appointmentRepo, noopLogger{})

	require.NoError(t, checker.ValidateInterval(context.Background(), 1, 2, start, end, nil))
}
