package payment_webhook

import (
	reconcilePayment "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/reconcile_payment"
)

// WebhookRequest callback платёжного шлюза
type WebhookRequest struct {
	PaymentID     string  `json:"paymentId"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transactionId,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
}

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Processed bool   `json:"processed"`
	Replayed  bool   `json:"replayed"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// ToUseCaseRequest конвертирует callback в модель use case
func (r *WebhookRequest) ToUseCaseRequest() *reconcilePayment.Request {
	return &reconcilePayment.Request{
		PaymentID:      r.PaymentID,
		Outcome:        r.Status,
		TransactionRef: r.TransactionID,
		PaymentMethod:  r.PaymentMethod,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reconcilePayment.Response) *WebhookResponse {
	return &WebhookResponse{
		Processed: true,
		Replayed:  resp.Replayed,
		PaymentID: resp.PaymentID.String(),
		Status:    resp.Status.Canonical(),
	}
}
