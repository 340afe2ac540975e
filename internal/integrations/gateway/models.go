package gateway

import (
	"github.com/shopspring/decimal"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// Checkout данные для создания сессии оплаты
type Checkout struct {
	PaymentID     string
	AppointmentID string
	Amount        decimal.Decimal
	Currency      string
	Method        domain.PaymentMethod
	Description   string
	CustomerEmail string
}

// Session созданная сессия оплаты
type Session struct {
	// Reference идентификатор на стороне провайдера, сохраняется как transaction ref
	Reference  string
	PaymentURL string
}
