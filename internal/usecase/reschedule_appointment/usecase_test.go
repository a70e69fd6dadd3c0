package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeAppointmentStore struct {
	byID map[int64]*domain.Appointment
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeAppointmentStore) UpdateSchedule(_ context.Context, id int64, start, end time.Time, status domain.AppointmentStatus) error {
	appt, ok := f.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	appt.StartAt = start
	appt.EndAt = end
	appt.Status = status
	return nil
}

func (f *fakeAppointmentStore) FindFirstOverlapping(_ context.Context, subject domain.ConflictSubject, subjectID int64, start, end time.Time, excludeID *int64) (*domain.Appointment, error) {
	for _, appt := range f.byID {
		if excludeID != nil && appt.ID == *excludeID {
			continue
		}
		if !appt.IsActive() {
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
		if scheduling.StrictOverlap(appt.StartAt, appt.EndAt, start, end) {
			copied := *appt
			return &copied, nil
		}
	}
	return nil, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
}

func (f *fakeCatalogRepo) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return f.service, nil
}

type fakeScheduleRepo struct {
	availability []*domain.Availability
	timeOffs     []*domain.TimeOff
}

func (f *fakeScheduleRepo) ListAvailabilityByStaff(_ context.Context, _ int64) ([]*domain.Availability, error) {
	return f.availability, nil
}

func (f *fakeScheduleRepo) FirstTimeOffOverlapping(_ context.Context, _ int64, start, end time.Time) (*domain.TimeOff, error) {
	for _, off := range f.timeOffs {
		if off.Overlaps(start, end) {
			return off, nil
		}
	}
	return nil, nil
}

type fakeNotificationRepo struct {
	created []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.created = append(f.created, n)
	return n, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// 2 марта 2026, понедельник
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	store     *fakeAppointmentStore
	notifRepo *fakeNotificationRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	startTime := types.TimeString("09:00")
	endTime := types.TimeString("18:00")

	store := &fakeAppointmentStore{byID: map[int64]*domain.Appointment{
		10: {
			ID:        10,
			ServiceID: 1,
			StaffID:   1,
			ClientID:  2,
			Status:    domain.StatusConfirmed,
			StartAt:   monday.Add(9 * time.Hour),
			EndAt:     monday.Add(9*time.Hour + 30*time.Minute),
		},
	}}
	catalog := &fakeCatalogRepo{service: &domain.Service{
		ID:              1,
		Name:            "Стрижка",
		DurationMinutes: 30,
		Active:          true,
	}}
	schedule := &fakeScheduleRepo{availability: []*domain.Availability{{
		Kind:      domain.AvailabilityRecurring,
		DayOfWeek: ptr.Ptr(1),
		StartTime: &startTime,
		EndTime:   &endTime,
	}}}
	notifRepo := &fakeNotificationRepo{}
	checker := scheduling.NewChecker(schedule, store, noopLogger{})

	uc := NewUseCase(store, catalog, notifRepo, checker, fakeTxManager{}, noopLogger{})
	return &fixture{uc: uc, store: store, notifRepo: notifRepo}
}

func TestExecute_SelfOverlapOnly(t *testing.T) {
	f := newFixture(t)

	// Новый интервал пересекается только с самой записью
	newStart := monday.Add(9*time.Hour + 15*time.Minute)
	newEnd := monday.Add(9*time.Hour + 45*time.Minute)

	appt, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      newStart,
		NewEnd:        newEnd,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRescheduled, appt.Status)
	assert.Equal(t, newStart, appt.StartAt)
	assert.Equal(t, newEnd, appt.EndAt)

	require.Len(t, f.notifRepo.created, 1)
	assert.Equal(t, domain.NotificationTypeBookingRescheduled, f.notifRepo.created[0].Type)
	assert.Equal(t, int64(10), f.notifRepo.created[0].AppointmentID)
}

func TestExecute_ConflictWithOtherAppointment(t *testing.T) {
	f := newFixture(t)
	f.store.byID[11] = &domain.Appointment{
		ID:       11,
		StaffID:  1,
		ClientID: 3,
		Status:   domain.StatusPending,
		StartAt:  monday.Add(10 * time.Hour),
		EndAt:    monday.Add(10*time.Hour + 30*time.Minute),
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      monday.Add(10*time.Hour + 15*time.Minute),
		NewEnd:        monday.Add(10*time.Hour + 45*time.Minute),
	})
	assert.ErrorIs(t, err, ErrStaffConflict)

	// Запись осталась на старом интервале, уведомление не ставилось
	assert.Equal(t, monday.Add(9*time.Hour), f.store.byID[10].StartAt)
	assert.Equal(t, domain.StatusConfirmed, f.store.byID[10].Status)
	assert.Empty(t, f.notifRepo.created)
}

func TestExecute_TimeOffBlocked(t *testing.T) {
	f := newFixture(t)
	reason := "отпуск"
	checker := scheduling.NewChecker(&fakeScheduleRepo{timeOffs: []*domain.TimeOff{{
		StartAt: monday.Add(10 * time.Hour),
		EndAt:   monday.Add(12 * time.Hour),
		Reason:  &reason,
	}}}, f.store, noopLogger{})
	f.uc.checker = checker

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      monday.Add(10 * time.Hour),
		NewEnd:        monday.Add(10*time.Hour + 30*time.Minute),
	})
	assert.ErrorIs(t, err, ErrTimeOffBlocked)
	assert.Contains(t, err.Error(), "отпуск")
}

func TestExecute_TerminalStatus(t *testing.T) {
	f := newFixture(t)
	f.store.byID[10].Status = domain.StatusCompleted

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      monday.Add(11 * time.Hour),
		NewEnd:        monday.Add(11*time.Hour + 30*time.Minute),
	})
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_DurationMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      monday.Add(11 * time.Hour),
		NewEnd:        monday.Add(12 * time.Hour),
	})
	require.ErrorIs(t, err, ErrDurationMismatch)
	assert.Contains(t, err.Error(), "30")
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 404,
		NewStart:      monday.Add(11 * time.Hour),
		NewEnd:        monday.Add(11*time.Hour + 30*time.Minute),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      monday.Add(11 * time.Hour),
		NewEnd:        monday.Add(11 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_MissingServiceIsIntegrityFailure(t *testing.T) {
	f := newFixture(t)
	f.store.byID[10].ServiceID = 999

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 10,
		NewStart:      monday.Add(11 * time.Hour),
		NewEnd:        monday.Add(11*time.Hour + 30*time.Minute),
	})
	assert.ErrorIs(t, err, ErrInternal)
}
