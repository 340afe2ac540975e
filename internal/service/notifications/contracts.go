package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/bgtasks"
)

// TaskRunner фоновое выполнение задач
type TaskRunner interface {
	Submit(name string, task bgtasks.Task) bool
}

// AppointmentRepository сохранение ссылки на событие календаря и повторное чтение статуса записи
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	SetCalendarEventID(ctx context.Context, id uuid.UUID, eventID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
