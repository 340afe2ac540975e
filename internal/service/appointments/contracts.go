package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []domain.AppointmentStatus, to domain.AppointmentStatus) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetLatestByAppointmentID(ctx context.Context, appointmentID uuid.UUID) (*domain.Payment, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to domain.PaymentStatus, ref *string, method *domain.PaymentMethod) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier best-effort уведомления
type Notifier interface {
	PaymentConfirmed(a domain.Appointment, p domain.Payment)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
