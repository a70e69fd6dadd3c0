package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// buildSlots строит свободные слоты на указанную UTC-дату.
// Шаг сетки равен длительности услуги. Слот попадает в ответ, если он целиком
// лежит в окне доступности (или доступность не ограничена), не пересекается
// с выходными (границы включительно), не пересекается строго с активными
// записями и не начинается в прошлом.
func buildSlots(
	date time.Time,
	durationMinutes int,
	availability []*domain.Availability,
	timeOffs []*domain.TimeOff,
	appointments []*domain.Appointment,
	now time.Time,
) []Slot {
	if durationMinutes <= 0 {
		return nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	duration := time.Duration(durationMinutes) * time.Minute

	slots := make([]Slot, 0)

	for t := dayStart; !t.Add(duration).After(dayEnd); t = t.Add(duration) {
		end := t.Add(duration)

		if t.Before(now) {
			continue
		}
		if !scheduling.IntervalPermitted(availability, t, end) {
			continue
		}
		if blockedByTimeOff(timeOffs, t, end) {
			continue
		}
		if overlapsActiveAppointment(appointments, t, end) {
			continue
		}

		slots = append(slots, Slot{StartAt: t, EndAt: end})
	}

	return slots
}

// blockedByTimeOff проверяет пересечение кандидата с выходными (границы включительно)
func blockedByTimeOff(timeOffs []*domain.TimeOff, start, end time.Time) bool {
	for _, off := range timeOffs {
		if off.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// overlapsActiveAppointment проверяет строгое пересечение кандидата с активными записями
func overlapsActiveAppointment(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if scheduling.StrictOverlap(appt.StartAt, appt.EndAt, start, end) {
			return true
		}
	}
	return false
}
