package cancel_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.AppointmentStatus, to domain.AppointmentStatus) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetLatestByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*domain.Payment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier best-effort уведомления об отмене
type Notifier interface {
	Cancelled(a domain.Appointment)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
