package get_available_slots

import (
	"fmt"
	"strings"
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// parseDay разбирает дату в часовом поясе компании
func parseDay(raw string, loc *time.Location) (dayWindow, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dayWindow{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	day, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return dayWindow{}, fmt.Errorf("%w: date must match format %s", ErrInvalidDate, domain.DateFormat)
	}

	return dayWindow{
		day:   day,
		start: day,
		end:   day.AddDate(0, 0, 1),
	}, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.Before(nowOnly)
}
