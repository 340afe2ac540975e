package update_appointment

import (
	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments/models"
)

// UpdateAppointmentRequest HTTP request model
type UpdateAppointmentRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// IsCancellation true, если администратор отменяет запись
func (r *UpdateAppointmentRequest) IsCancellation() bool {
	if r.Status == nil {
		return false
	}
	status, err := domain.ParseAppointmentStatus(*r.Status)
	return err == nil && status == domain.AppointmentCancelled
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// withStatus=false используется после отмены: остаются только заметки
func (r *UpdateAppointmentRequest) ToServiceRequest(actor string, withStatus bool) *models.UpdateRequest {
	req := &models.UpdateRequest{
		Actor: actor,
		Notes: r.Notes,
	}
	if withStatus {
		req.Status = r.Status
	}
	return req
}
