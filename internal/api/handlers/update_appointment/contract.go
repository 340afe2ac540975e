package update_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments/models"
	cancelAppointment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/cancel_appointment"
)

type AppointmentService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateRequest) (*models.AppointmentResponse, error)
}

type CancelAppointmentUseCase interface {
	Execute(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
