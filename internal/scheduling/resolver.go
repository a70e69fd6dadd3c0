package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// IntervalPermitted проверяет интервал-кандидат против набора окон доступности сотрудника.
// Пустой набор означает отсутствие ограничений: интервал разрешен.
// Иначе интервал разрешен, только если хотя бы одно окно целиком содержит его.
func IntervalPermitted(records []*domain.Availability, start, end time.Time) bool {
	if len(records) == 0 {
		return true
	}

	for _, rec := range records {
		if availabilityContains(rec, start, end) {
			return true
		}
	}

	return false
}

// availabilityContains проверяет, что окно целиком содержит интервал [start, end]
func availabilityContains(rec *domain.Availability, start, end time.Time) bool {
	switch rec.Kind {
	case domain.AvailabilityRecurring:
		return recurringContains(rec, start, end)
	case domain.AvailabilityOneOff:
		return oneOffContains(rec, start, end)
	default:
		return false
	}
}

// recurringContains проверяет интервал против еженедельного окна.
// Сравнение идет по календарным полям UTC: день недели начала интервала должен
// совпадать с днём окна, а обе границы интервала (в минутах с полуночи UTC)
// попадать в [StartTime, EndTime] включительно. Окно не переходит через полночь:
// интервал, конец которого попадает на следующий UTC-день, никогда не совпадает.
// Некорректный формат "HH:MM" в записи делает её несовпадающей, это не ошибка.
func recurringContains(rec *domain.Availability, start, end time.Time) bool {
	if rec.DayOfWeek == nil || rec.StartTime == nil || rec.EndTime == nil {
		return false
	}

	startUTC := start.UTC()
	endUTC := end.UTC()

	if int(startUTC.Weekday()) != *rec.DayOfWeek {
		return false
	}

	// Интервал через полночь UTC не попадает в recurring-окно
	if !sameUTCDay(startUTC, endUTC) {
		return false
	}

	windowStart, err := rec.StartTime.Minutes()
	if err != nil {
		return false
	}
	windowEnd, err := rec.EndTime.Minutes()
	if err != nil {
		return false
	}

	startMinutes := startUTC.Hour()*60 + startUTC.Minute()
	endMinutes := endUTC.Hour()*60 + endUTC.Minute()

	return startMinutes >= windowStart && startMinutes <= windowEnd &&
		endMinutes >= windowStart && endMinutes <= windowEnd
}

// oneOffContains проверяет, что разовый диапазон [StartDate, EndDate] (включительно)
// целиком содержит интервал [start, end]
func oneOffContains(rec *domain.Availability, start, end time.Time) bool {
	if rec.StartDate == nil || rec.EndDate == nil {
		return false
	}
	return !start.Before(*rec.StartDate) && !end.After(*rec.EndDate)
}

// sameUTCDay проверяет, что оба момента приходятся на одну UTC-дату
func sameUTCDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StrictOverlap строгий тест пересечения полуоткрытых интервалов:
// [aStart, aEnd) и [bStart, bEnd) пересекаются, если aStart < bEnd && aEnd > bStart.
// Касание концов пересечением не считается.
func StrictOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
