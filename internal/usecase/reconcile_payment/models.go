package reconcile_payment

import (
	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Результаты для метрики payment_webhooks_total
const (
	resultProcessed = "processed"
	resultReplayed  = "replayed"
	resultConflict  = "conflict"
	resultInvalid   = "invalid"
	resultNotFound  = "not_found"
	resultError     = "error"
)

// Request callback платёжного шлюза
type Request struct {
	PaymentID      string
	Outcome        string  // success, succeeded, paid, failed, expired, ...
	TransactionRef *string // ссылка провайдера
	PaymentMethod  *string // способ оплаты, если шлюз его сообщает
}

// Response результат обработки callback
type Response struct {
	PaymentID     uuid.UUID
	AppointmentID uuid.UUID
	Status        domain.PaymentStatus
	// Replayed true, если callback повторный и ничего не изменилось
	Replayed bool
}

// command провалидированный callback
type command struct {
	paymentID uuid.UUID
	target    domain.PaymentStatus
	ref       *string
	method    *domain.PaymentMethod
}
