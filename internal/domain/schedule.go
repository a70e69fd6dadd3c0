package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityKind вид записи доступности сотрудника
type AvailabilityKind string

const (
	// AvailabilityRecurring еженедельное окно: день недели + время стены "HH:MM"
	AvailabilityRecurring AvailabilityKind = "recurring"

	// AvailabilityOneOff разовый диапазон абсолютных дат
	AvailabilityOneOff AvailabilityKind = "one_off"
)

// Availability окно доступности сотрудника
// Отсутствие записей доступности у сотрудника означает отсутствие ограничений:
// любое время доступно для записи. Это инвариант, а не побочный эффект.
type Availability struct {
	ID       int64
	TenantID int64
	StaffID  int64
	Kind     AvailabilityKind

	// Поля recurring-окна: день недели (0=воскресенье..6=суббота) и границы времени по UTC
	DayOfWeek *int
	StartTime *types.TimeString
	EndTime   *types.TimeString

	// Поля one_off-окна: абсолютный диапазон дат (границы включительно)
	StartDate *time.Time
	EndDate   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeOff блэкаут-интервал сотрудника: любая запись, пересекающая его, отклоняется
// независимо от доступности
type TimeOff struct {
	ID       int64
	TenantID int64
	StaffID  int64
	StartAt  time.Time
	EndAt    time.Time
	Reason   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps проверяет пересечение блэкаута с интервалом-кандидатом
// Границы включительно: касание концов тоже блокирует
func (t *TimeOff) Overlaps(start, end time.Time) bool {
	return !t.StartAt.After(end) && !t.EndAt.Before(start)
}
