package create_appointment

import (
	"time"

	bookAppointment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/book_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Service string  `json:"service"`
	Date    string  `json:"date"` // YYYY-MM-DD
	Time    string  `json:"time"` // HH:MM
	Message *string `json:"message,omitempty"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	AppointmentID string    `json:"appointmentId"`
	PaymentID     string    `json:"paymentId"`
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	ScheduledAt   time.Time `json:"scheduledAt"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(bookedBy *string) *bookAppointment.Request {
	return &bookAppointment.Request{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Service:  r.Service,
		Date:     r.Date,
		Time:     r.Time,
		Message:  r.Message,
		BookedBy: bookedBy,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		AppointmentID: resp.AppointmentID.String(),
		PaymentID:     resp.PaymentID.String(),
		Status:        resp.Status.Canonical(),
		Service:       string(resp.Service),
		ScheduledAt:   resp.ScheduledAt.UTC(),
		Amount:        resp.Amount.StringFixed(2),
		Currency:      resp.Currency,
		PaymentMethod: resp.PaymentMethod.Canonical(),
		CreatedAt:     resp.CreatedAt,
	}
}
