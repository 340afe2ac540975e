package domain

import "time"

// AvailableSlot represents a bookable time slot of a day
type AvailableSlot struct {
	StartsAt  time.Time // UTC instant
	Time      string    // local HH:MM
	Available bool
}

// BookingHours working hours used to generate slots
type BookingHours struct {
	OpenTime       string // HH:MM
	CloseTime      string // HH:MM
	SlotMinutes    int
	ClosedWeekdays []time.Weekday
	Location       *time.Location
}

// IsClosedOn returns true if no slots are offered on the given day
func (h BookingHours) IsClosedOn(day time.Weekday) bool {
	for _, closed := range h.ClosedWeekdays {
		if closed == day {
			return true
		}
	}
	return false
}
