package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// ActivePaymentStatuses at most one payment per appointment may be in one of these
var ActivePaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentCompleted,
}

// PaymentMethod how the client pays
type PaymentMethod string

const (
	MethodGatewayA     PaymentMethod = "gateway_a"
	MethodGatewayB     PaymentMethod = "gateway_b"
	MethodGatewayC     PaymentMethod = "gateway_c"
	MethodBankTransfer PaymentMethod = "bank_transfer"
)

// Payment one payment attempt for an appointment
// Amount is a snapshot taken at creation time and never re-derived from the catalog
type Payment struct {
	ID             uuid.UUID
	AppointmentID  uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionRef *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsTerminal returns true for completed and failed payments
func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// IsActive returns true if the payment blocks creation of another one
func (p *Payment) IsActive() bool {
	return p.Status == PaymentPending || p.Status == PaymentCompleted
}

// IsTerminal returns true for completed and failed
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// CanTransitionTo pending -> completed | failed, everything else is illegal
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentPending && next.IsTerminal()
}

// IsGateway returns true for methods handled by an online payment gateway
func (m PaymentMethod) IsGateway() bool {
	return m == MethodGatewayA || m == MethodGatewayB || m == MethodGatewayC
}
