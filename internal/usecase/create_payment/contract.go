package create_payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/gateway"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
	GetLatestByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*domain.Payment, error)
	UpdateMethod(ctx context.Context, id uuid.UUID, method domain.PaymentMethod) error
	SetTransactionRef(ctx context.Context, id uuid.UUID, ref string) error
}

// GatewayRegistry шлюз по способу оплаты
type GatewayRegistry interface {
	For(method domain.PaymentMethod) gateway.Gateway
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier best-effort письмо с реквизитами для перевода
type Notifier interface {
	BankTransferRequested(a domain.Appointment, p domain.Payment)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
