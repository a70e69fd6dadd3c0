package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Фейки зависимостей use case

type fakeCatalogRepo struct {
	service  *domain.Service
	staff    *domain.Staff
	client   *domain.Client
	assigned bool

	serviceErr error
	staffErr   error
	clientErr  error
}

func (f *fakeCatalogRepo) GetServiceByID(_ context.Context, _ int64) (*domain.Service, error) {
	return f.service, f.serviceErr
}

func (f *fakeCatalogRepo) GetStaffByID(_ context.Context, _ int64) (*domain.Staff, error) {
	return f.staff, f.staffErr
}

func (f *fakeCatalogRepo) GetClientByID(_ context.Context, _ int64) (*domain.Client, error) {
	return f.client, f.clientErr
}

func (f *fakeCatalogRepo) StaffAssignedToService(_ context.Context, _, _ int64) (bool, error) {
	return f.assigned, nil
}

// fakeAppointmentStore in-memory хранилище записей; используется и как
// репозиторий, и как источник пересечений для checker
type fakeAppointmentStore struct {
	mu     sync.Mutex
	nextID int64
	items  []*domain.Appointment
}

func (f *fakeAppointmentStore) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	appt.ID = f.nextID
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	f.items = append(f.items, appt)
	return appt, nil
}

func (f *fakeAppointmentStore) FindFirstOverlapping(_ context.Context, subject domain.ConflictSubject, subjectID int64, start, end time.Time, excludeID *int64) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, appt := range f.items {
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
		if appt.StartAt.Before(end) && appt.EndAt.After(start) {
			return appt, nil
		}
	}
	return nil, nil
}

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

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return n, nil
}

// fakeTxManager сериализует транзакции mutex-ом, моделируя сериализуемую
// изоляцию для конкурентных тестов
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time {
	return f.now
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Сборка use case с дефолтными фейками

type fixture struct {
	catalog   *fakeCatalogRepo
	store     *fakeAppointmentStore
	schedule  *fakeScheduleRepo
	notifRepo *fakeNotificationRepo
	uc        *UseCase
}

func newFixture(now time.Time) *fixture {
	catalog := &fakeCatalogRepo{
		service: &domain.Service{
			ID:              1,
			Name:            "Стрижка",
			DurationMinutes: 30,
			Price:           1500,
			Currency:        "RUB",
			Active:          true,
		},
		staff:    &domain.Staff{ID: 2, Name: "Мастер"},
		client:   &domain.Client{ID: 3, Name: "Клиент"},
		assigned: true,
	}
	store := &fakeAppointmentStore{}
	schedule := &fakeScheduleRepo{}
	notifRepo := &fakeNotificationRepo{}

	checker := scheduling.NewChecker(schedule, store, noopLogger{})

	uc := NewUseCase(catalog, store, notifRepo, checker, &fakeTxManager{}, noopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}

	return &fixture{
		catalog:   catalog,
		store:     store,
		schedule:  schedule,
		notifRepo: notifRepo,
		uc:        uc,
	}
}

func validRequest(start time.Time) *Request {
	return &Request{
		ServiceID: 1,
		StaffID:   2,
		ClientID:  3,
		StartAt:   start,
		EndAt:     start.Add(30 * time.Minute),
	}
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	fx := newFixture(testNow)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	resp, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.Equal(t, "RUB", resp.Currency)
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, "Мастер", resp.StaffName)
	assert.Equal(t, "Клиент", resp.ClientName)

	// Уведомление поставлено в очередь в той же транзакции
	require.Len(t, fx.notifRepo.created, 1)
	assert.Equal(t, domain.NotificationTypeBookingCreated, fx.notifRepo.created[0].Type)
	assert.Equal(t, domain.NotificationQueued, fx.notifRepo.created[0].Status)
}

func TestExecute_PriceSnapshotIndependentOfLaterEdits(t *testing.T) {
	fx := newFixture(testNow)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	resp, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)

	// Правка цены услуги после создания не меняет снимок в записи
	fx.catalog.service.Price = 9999
	assert.Equal(t, 1500.0, resp.ServicePrice)
	assert.Equal(t, 1500.0, fx.store.items[0].ServicePrice)
}

func TestExecute_StaffConflict(t *testing.T) {
	fx := newFixture(testNow)

	// Существующая запись 09:00-10:00; кандидат 09:15-09:45 пересекается
	existing := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	fx.store.items = append(fx.store.items, &domain.Appointment{
		ID:      100,
		StaffID: 2,
		Status:  domain.StatusConfirmed,
		StartAt: existing,
		EndAt:   existing.Add(time.Hour),
	})
	fx.store.nextID = 100

	req := &Request{
		ServiceID: 1,
		StaffID:   2,
		ClientID:  3,
		StartAt:   existing.Add(15 * time.Minute),
		EndAt:     existing.Add(45 * time.Minute),
	}

	_, err := fx.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrStaffConflict)

	// Запись не создана, уведомлений нет
	assert.Len(t, fx.store.items, 1)
	assert.Empty(t, fx.notifRepo.created)
}

func TestExecute_TimeOffWinsOverAvailability(t *testing.T) {
	fx := newFixture(testNow)
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// Окно доступности покрывает интервал, но выходной отклоняет его первым
	dow := 1
	st, et := timeStringPair("09:00", "17:00")
	fx.schedule.availability = []*domain.Availability{{
		Kind:      domain.AvailabilityRecurring,
		DayOfWeek: &dow,
		StartTime: st,
		EndTime:   et,
	}}
	fx.schedule.timeOff = []*domain.TimeOff{{
		StartAt: start.Add(-time.Hour),
		EndAt:   start.Add(time.Hour),
		Reason:  ptr.Ptr("обучение"),
	}}

	_, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.ErrorIs(t, err, ErrTimeOffBlocked)
}

func TestExecute_OutsideAvailability(t *testing.T) {
	fx := newFixture(testNow)

	dow := 1
	st, et := timeStringPair("09:00", "12:00")
	fx.schedule.availability = []*domain.Availability{{
		Kind:      domain.AvailabilityRecurring,
		DayOfWeek: &dow,
		StartTime: st,
		EndTime:   et,
	}}

	// Понедельник, но после окна
	start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	_, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestExecute_DurationMismatch(t *testing.T) {
	fx := newFixture(testNow)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	req := &Request{
		ServiceID: 1,
		StaffID:   2,
		ClientID:  3,
		StartAt:   start,
		EndAt:     start.Add(45 * time.Minute), // услуга длится 30 минут
	}

	_, err := fx.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrDurationMismatch)
	assert.Contains(t, err.Error(), "30")
}

func TestExecute_PastStart(t *testing.T) {
	fx := newFixture(testNow)
	start := testNow.Add(-time.Hour)

	_, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.ErrorIs(t, err, ErrPastStart)
}

func TestExecute_StaffNotAssigned(t *testing.T) {
	fx := newFixture(testNow)
	fx.catalog.assigned = false
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.ErrorIs(t, err, ErrStaffNotAssigned)
}

func TestExecute_InactiveService(t *testing.T) {
	fx := newFixture(testNow)
	fx.catalog.service.Active = false
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	_, err := fx.uc.Execute(context.Background(), validRequest(start))
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	fx := newFixture(testNow)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Конец не позже начала
	req := validRequest(start)
	req.EndAt = req.StartAt
	_, err := fx.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)

	// Отрицательный ID
	req = validRequest(start)
	req.StaffID = -1
	_, err = fx.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	// Две конкурирующие заявки на один слот: ровно одна проходит
	fx := newFixture(testNow)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.uc.Execute(context.Background(), validRequest(start))
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errorIsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, fx.store.items, 1)
	assert.Len(t, fx.notifRepo.created, 1)
}

func errorIsConflict(err error) bool {
	return errors.Is(err, ErrStaffConflict) || errors.Is(err, ErrClientConflict)
}

func timeStringPair(start, end string) (*types.TimeString, *types.TimeString) {
	st := types.TimeString(start)
	et := types.TimeString(end)
	return &st, &et
}
