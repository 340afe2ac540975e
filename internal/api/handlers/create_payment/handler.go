package create_payment

import (
	"errors"
	"net/http"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers"
	createPayment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/create_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные платежа"
	msgNotFound           = "запись не найдена"
	msgNotPayable         = "запись отменена или уже проведена"
	msgDuplicatePayment   = "запись уже оплачена"
	msgAmountMismatch     = "сумма не совпадает со стоимостью записи"
	msgGatewayUnavailable = "платёжный шлюз временно недоступен, повторите попытку позже"
)

type Handler struct {
	useCase CreatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments - Invalid input: appointment_id=%s, error=%v", req.AppointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createPayment.ErrAmountMismatch):
			h.logger.Warn("POST /payments - Amount mismatch: appointment_id=%s", req.AppointmentID)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, createPayment.ErrAppointmentNotFound):
			h.logger.Warn("POST /payments - Appointment not found: appointment_id=%s", req.AppointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createPayment.ErrAppointmentNotPayable):
			h.logger.Warn("POST /payments - Appointment not payable: appointment_id=%s", req.AppointmentID)
			handlers.RespondConflict(w, msgNotPayable)

		case errors.Is(err, createPayment.ErrDuplicatePayment):
			h.logger.Warn("POST /payments - Duplicate payment: appointment_id=%s", req.AppointmentID)
			handlers.RespondConflict(w, msgDuplicatePayment)

		case errors.Is(err, createPayment.ErrGatewayUnavailable):
			h.logger.Warn("POST /payments - Gateway unavailable: appointment_id=%s, method=%s, error=%v",
				req.AppointmentID, req.PaymentMethod, err)
			handlers.RespondServiceUnavailable(w, msgGatewayUnavailable)

		default:
			h.logger.Error("POST /payments - Failed to create payment: appointment_id=%s, error=%v", req.AppointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments - Payment initiated: payment_id=%s, appointment_id=%s, method=%s, reused=%t",
		result.PaymentID, result.AppointmentID, result.Method, result.Reused)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
