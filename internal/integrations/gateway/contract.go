package gateway

import (
	"context"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Gateway платёжный шлюз: создаёт сессию оплаты, результат приходит webhook'ом
type Gateway interface {
	Initiate(ctx context.Context, checkout Checkout) (*Session, error)
}

// LinkAPI создание платёжной ссылки Omise
type LinkAPI interface {
	CreateLink(op *operations.CreateLink) (*omise.Link, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
