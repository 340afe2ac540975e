package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ActiveAppointmentStatuses statuses that occupy a slot
var ActiveAppointmentStatuses = []AppointmentStatus{
	AppointmentPending,
	AppointmentConfirmed,
}

// appointmentTransitions allowed status transitions; terminal statuses have no entry
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// Appointment represents a counseling session booked by a client
type Appointment struct {
	ID          uuid.UUID
	ClientName  string
	Email       string
	Phone       string
	Service     ServiceType
	ScheduledAt time.Time // date + time combined, UTC
	Message     *string
	Status      AppointmentStatus

	// BookedBy actor that created the booking on behalf of the client (nil for public bookings)
	BookedBy        *string
	AdminNotes      *string
	CalendarEventID *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// IsTerminal returns true if no further transitions are possible
func (a *Appointment) IsTerminal() bool {
	return a.Status.IsTerminal()
}

// CanTransitionTo reports whether the state machine allows moving to next
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	return a.Status.CanTransitionTo(next)
}

// HasCalendarEvent returns true if an external calendar event is attached
func (a *Appointment) HasCalendarEvent() bool {
	return a.CalendarEventID != nil && *a.CalendarEventID != ""
}

// IsActive returns true for statuses that occupy a slot
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentPending || s == AppointmentConfirmed
}

// IsTerminal returns true for completed and cancelled
func (s AppointmentStatus) IsTerminal() bool {
	_, ok := appointmentTransitions[s]
	return !ok
}

// CanTransitionTo reports whether s -> next is a legal transition
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
