package domain

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 часов
)

// Pagination constants
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие слот: участвуют в проверке пересечений
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
