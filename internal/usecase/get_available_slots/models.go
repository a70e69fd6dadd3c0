package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов
type Request struct {
	StaffID   int64
	ServiceID int64
	Date      time.Time // Дата (UTC, без времени)
}

// Slot свободный слот для записи
type Slot struct {
	StartAt time.Time
	EndAt   time.Time
}

// Response модель ответа со свободными слотами
type Response struct {
	StaffID         int64
	ServiceID       int64
	Date            time.Time
	DurationMinutes int
	Slots           []Slot
}
