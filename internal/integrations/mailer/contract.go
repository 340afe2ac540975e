package mailer

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// Sender отправляет письмо по шаблону
// performed=false без ошибки означает, что отправка писем не настроена
type Sender interface {
	Send(ctx context.Context, kind TemplateKind, recipient string, data TemplateData) (performed bool, err error)
}

// Publisher публикация в RabbitMQ (*amqp091.Channel)
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
