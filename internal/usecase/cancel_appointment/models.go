package cancel_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Request модель запроса на отмену
type Request struct {
	AppointmentID uuid.UUID
	Actor         *string // администратор, если отменяет он
}

// Response модель ответа
type Response struct {
	AppointmentID uuid.UUID
	Status        domain.AppointmentStatus
	CancelledAt   *time.Time
	// AlreadyCancelled true, если запись была отменена раньше и ничего не изменилось
	AlreadyCancelled bool
}
