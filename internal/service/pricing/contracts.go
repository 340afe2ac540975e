package pricing

import (
	"context"

	"github.com/BECOF-Cons/becof-website-sub000/internal/domain"
)

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	FindActiveService(ctx context.Context, id domain.ServiceType) (*domain.ServiceEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
