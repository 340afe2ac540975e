package payment_webhook

import (
	"errors"
	"net/http"

	"github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers"
	reconcilePayment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/reconcile_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "отсутствует ID платежа или неизвестный статус"
	msgNotFound           = "платеж не найден"
	msgOutcomeConflict    = "платеж уже завершён с другим результатом"
)

type Handler struct {
	useCase ReconcilePaymentUseCase
	logger  Logger
}

func NewHandler(useCase ReconcilePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Повторный callback с тем же результатом отвечает 200, чтобы шлюз прекратил повторы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, reconcilePayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/webhook - Invalid callback: payment_id=%q, status=%q", req.PaymentID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, reconcilePayment.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/webhook - Payment not found: payment_id=%s", req.PaymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reconcilePayment.ErrOutcomeConflict):
			h.logger.Warn("POST /payments/webhook - Conflicting outcome: payment_id=%s, status=%s", req.PaymentID, req.Status)
			handlers.RespondConflict(w, msgOutcomeConflict)

		default:
			h.logger.Error("POST /payments/webhook - Failed to reconcile payment: payment_id=%s, error=%v", req.PaymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Callback processed: payment_id=%s, status=%s, replayed=%t",
		result.PaymentID, result.Status, result.Replayed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
