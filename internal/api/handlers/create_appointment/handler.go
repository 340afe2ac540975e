package create_appointment

import (
	"errors"
	"net/http"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers"
	"github.com/BECOF-Cons/becof-website-sub000/internal/api/middleware"
	bookAppointment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/book_appointment"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/validation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "некорректные поля запроса"
	msgSlotConflict       = "выбранное время уже занято"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Запись от имени администратора, если запрос прошёл через AdminAuth
	var bookedBy *string
	if actor, ok := middleware.GetActor(r.Context()); ok {
		bookedBy = &actor
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookedBy))
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrValidation):
			h.logger.Warn("POST /appointments - Validation failed: %v", err)
			handlers.RespondValidation(w, msgValidationFailed, validation.Fields(err))

		case errors.Is(err, bookAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: date=%s, time=%s", req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /appointments - Failed to book appointment: date=%s, time=%s, error=%v",
				req.Date, req.Time, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment booked: appointment_id=%s, payment_id=%s",
		result.AppointmentID, result.PaymentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
