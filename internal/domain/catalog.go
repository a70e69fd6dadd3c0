package domain

import "time"

// Service услуга тенанта
// DurationMinutes задает закон длительности: запись на услугу обязана иметь
// ровно такую длительность на момент создания или переноса
type Service struct {
	ID              int64
	TenantID        int64
	Name            string
	DurationMinutes int
	Price           float64
	Currency        string
	Active          bool
	DeletedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBookable возвращает true, если на услугу можно записаться
func (s *Service) IsBookable() bool {
	return s.Active && s.DeletedAt == nil
}

// Staff сотрудник тенанта; опционально связан с учетной записью пользователя
type Staff struct {
	ID        int64
	TenantID  int64
	UserID    *int64
	Name      string
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client клиент тенанта
type Client struct {
	ID        int64
	TenantID  int64
	Name      string
	Email     string
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
