package create_payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Request модель запроса на оплату
type Request struct {
	AppointmentID string
	PaymentMethod string
	Amount        *string // если передана, должна совпадать с ценой на момент записи
}

// Response модель ответа
type Response struct {
	PaymentID     uuid.UUID
	AppointmentID uuid.UUID
	Method        domain.PaymentMethod
	Status        domain.PaymentStatus
	Amount        decimal.Decimal
	Currency      string
	// PaymentURL ссылка на оплату у шлюза; nil для банковского перевода
	PaymentURL *string
	// Reused true, если использован существующий ожидающий платеж
	Reused bool
}

type command struct {
	appointmentID uuid.UUID
	method        domain.PaymentMethod
	amount        *decimal.Decimal
}
