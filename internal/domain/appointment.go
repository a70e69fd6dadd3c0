package domain

import "time"

// AppointmentStatus статус записи на приём
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// Appointment запись клиента к сотруднику на услугу
type Appointment struct {
	ID        int64
	TenantID  int64
	ServiceID int64
	StaffID   int64
	ClientID  int64
	StartAt   time.Time
	EndAt     time.Time
	Status    AppointmentStatus

	// Снимок цены услуги на момент создания, не зависит от последующих правок услуги
	ServicePrice float64
	Currency     string

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	// Денормализованные данные для ответов
	ServiceName string
	StaffName   string
	ClientName  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись занимает слот (участвует в проверке пересечений)
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если запись можно отменить
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed || a.Status == StatusRescheduled
}

// CanBeRescheduled возвращает true, если запись можно перенести
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed || a.Status == StatusRescheduled
}

// IsTerminal возвращает true, если статус конечный
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted || a.Status == StatusNoShow
}

// allowedTransitions таблица допустимых переходов статусов
// Конечные статусы (cancelled, completed, no_show) не имеют исходящих переходов
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:     {StatusConfirmed, StatusCancelled, StatusRescheduled},
	StatusConfirmed:   {StatusCancelled, StatusCompleted, StatusNoShow, StatusRescheduled},
	StatusRescheduled: {StatusConfirmed, StatusCancelled, StatusRescheduled},
}

// CanTransitionTo проверяет допустимость перехода статуса по таблице переходов
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidStatus проверяет, что строка содержит известный статус записи
func ValidStatus(s string) bool {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow, StatusRescheduled:
		return true
	default:
		return false
	}
}

// ConflictSubject сторона проверки пересечений: сотрудник или клиент
type ConflictSubject string

const (
	SubjectStaff  ConflictSubject = "staff"
	SubjectClient ConflictSubject = "client"
)

// AppointmentsFilter фильтр для получения списка записей
type AppointmentsFilter struct {
	StaffID   *int64             // Фильтр по сотруднику (опционально)
	ClientID  *int64             // Фильтр по клиенту (опционально)
	Status    *AppointmentStatus // Фильтр по статусу (опционально)
	StartFrom *time.Time         // Начало периода (опционально)
	StartTo   *time.Time         // Конец периода (опционально)
	Limit     int                // Размер страницы (0 = DefaultPageSize)
	Offset    int
}
