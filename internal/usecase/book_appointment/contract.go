package book_appointment

import (
	"context"
	"time"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/internal/infra/lock"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/pricing"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error)
}

// SlotLedger проверка занятости слота
type SlotLedger interface {
	IsSlotFree(ctx context.Context, instant time.Time) (bool, error)
}

// PriceResolver определение цены услуги
type PriceResolver interface {
	ResolvePrice(ctx context.Context, service domain.ServiceType) (pricing.Price, error)
}

// SlotLocker распределённая блокировка слота (Redis или no-op)
type SlotLocker interface {
	AcquireSlot(ctx context.Context, instant time.Time) (lock.ReleaseFunc, bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier best-effort уведомления после фиксации транзакции
type Notifier interface {
	BookingCreated(a domain.Appointment, p domain.Payment)
}

// MetricsObserver учет результатов бронирования
type MetricsObserver interface {
	ObserveBooking(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
