package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/cancel_appointment"
)

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	AppointmentID    string     `json:"appointmentId"`
	Status           string     `json:"status"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	AlreadyCancelled bool       `json:"alreadyCancelled"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		AppointmentID:    resp.AppointmentID.String(),
		Status:           resp.Status.Canonical(),
		CancelledAt:      resp.CancelledAt,
		AlreadyCancelled: resp.AlreadyCancelled,
	}
}
