package calendar

import "context"

// Calendar внешний календарь консультантов
// performed=false без ошибки означает, что интеграция не настроена и вызов не выполнялся
type Calendar interface {
	CreateEvent(ctx context.Context, event Event) (id string, performed bool, err error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (performed bool, err error)
	DeleteEvent(ctx context.Context, id string) (performed bool, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
