package get_available_slots

import (
	"fmt"
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// generateSlots генерирует слоты дня от открытия до закрытия с шагом SlotMinutes
// Слот, который не помещается до закрытия целиком, не предлагается.
// Слоты, начало которых уже прошло, отбрасываются.
func generateSlots(hours domain.BookingHours, window dayWindow, now time.Time) ([]time.Time, error) {
	if hours.IsClosedOn(window.day.Weekday()) || isDateInPast(window.day, now) {
		return []time.Time{}, nil
	}

	openAt, err := atClock(window.day, hours.OpenTime)
	if err != nil {
		return nil, err
	}
	closeAt, err := atClock(window.day, hours.CloseTime)
	if err != nil {
		return nil, err
	}

	step := time.Duration(hours.SlotMinutes) * time.Minute
	if step <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d minutes", hours.SlotMinutes)
	}

	slots := make([]time.Time, 0)
	for current := openAt; !current.Add(step).After(closeAt); current = current.Add(step) {
		if current.Before(now) {
			continue
		}
		slots = append(slots, current)
	}

	return slots, nil
}

// markTaken помечает занятые слоты
func markTaken(starts []time.Time, taken map[time.Time]struct{}, loc *time.Location) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, len(starts))
	for i, start := range starts {
		_, busy := taken[start.UTC()]
		result[i] = domain.AvailableSlot{
			StartsAt:  start.UTC(),
			Time:      start.In(loc).Format(domain.TimeFormat),
			Available: !busy,
		}
	}
	return result
}

// atClock момент "HH:MM" локального дня day
func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(domain.TimeFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid working hours %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
