package domain

import "time"

// NotificationStatus статус записи уведомления в очереди
type NotificationStatus string

const (
	NotificationQueued NotificationStatus = "queued"
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Типы и каналы уведомлений
const (
	NotificationTypeBookingCreated     = "booking_created"
	NotificationTypeBookingRescheduled = "booking_rescheduled"
	NotificationTypeBookingCancelled   = "booking_cancelled"

	NotificationChannelEmail = "email"
)

// Notification запись уведомления, поставленная в очередь
// Вставляется в одной транзакции с записью на приём; доставка остается зоной
// ответственности внешнего воркера и в этот сервис не входит
type Notification struct {
	ID            int64
	TenantID      int64
	UserID        int64
	AppointmentID int64
	Type          string
	Channel       string
	Payload       []byte // денормализованный JSON-payload
	Status        NotificationStatus

	CreatedAt time.Time
}
