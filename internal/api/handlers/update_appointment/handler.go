package update_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers"
	"github.com/BECOF-Cons/becof-website-sub000/internal/api/middleware"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments/models"
	cancelAppointment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/cancel_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные данные для изменения записи"
	msgUnauthorized         = "требуется авторизация администратора"
	msgNotFound             = "запись не найдена"
	msgInvalidTransition    = "недопустимое изменение статуса записи"
)

type Handler struct {
	service  AppointmentService
	canceler CancelAppointmentUseCase
	logger   Logger
}

func NewHandler(service AppointmentService, canceler CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		service:  service,
		canceler: canceler,
		logger:   logger,
	}
}

// Handle PATCH /api/v1/appointments/{id}
// Статус cancelled выполняется сценарием отмены, остальные изменения сервисом записей
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id} - Missing admin actor: appointment_id=%s", id)
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var result *models.AppointmentResponse
	if req.IsCancellation() {
		if !h.cancel(w, r, id, actor) {
			return
		}
		if req.Notes == nil {
			result, err = h.service.GetByID(r.Context(), id)
		} else {
			result, err = h.service.Update(r.Context(), id, req.ToServiceRequest(actor, false))
		}
	} else {
		result, err = h.service.Update(r.Context(), id, req.ToServiceRequest(actor, true))
	}

	if err != nil {
		h.respondServiceError(w, id, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment updated: appointment_id=%s, status=%s, actor=%s",
		id, result.Status, actor)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// cancel отменяет запись, false означает, что ответ уже отправлен
func (h *Handler) cancel(w http.ResponseWriter, r *http.Request, id uuid.UUID, actor string) bool {
	_, err := h.canceler.Execute(r.Context(), &cancelAppointment.Request{AppointmentID: id, Actor: &actor})
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, cancelAppointment.ErrAppointmentNotFound):
		h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%s", id)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, cancelAppointment.ErrCannotCancel):
		h.logger.Warn("PATCH /appointments/{id} - Cannot cancel: appointment_id=%s", id)
		handlers.RespondConflict(w, msgInvalidTransition)

	default:
		h.logger.Error("PATCH /appointments/{id} - Failed to cancel appointment: appointment_id=%s, error=%v", id, err)
		handlers.RespondInternalError(w)
	}
	return false
}

func (h *Handler) respondServiceError(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		h.logger.Warn("PATCH /appointments/{id} - Appointment not found: appointment_id=%s", id)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, appointments.ErrInvalidTransition):
		h.logger.Warn("PATCH /appointments/{id} - Invalid transition: appointment_id=%s, error=%v", id, err)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, appointments.ErrInvalidInput):
		h.logger.Warn("PATCH /appointments/{id} - Invalid input: appointment_id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case errors.Is(err, appointments.ErrActorRequired):
		h.logger.Warn("PATCH /appointments/{id} - Actor required: appointment_id=%s", id)
		handlers.RespondUnauthorized(w, msgUnauthorized)

	default:
		h.logger.Error("PATCH /appointments/{id} - Failed to update appointment: appointment_id=%s, error=%v", id, err)
		handlers.RespondInternalError(w)
	}
}
