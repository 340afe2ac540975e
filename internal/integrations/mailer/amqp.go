package mailer

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

// QueuedEmail сообщение в очереди писем
type QueuedEmail struct {
	Kind      TemplateKind `json:"kind"`
	Recipient string       `json:"recipient"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
}

// AMQPSender публикует готовые письма в очередь RabbitMQ, отправляет их Worker
type AMQPSender struct {
	publisher Publisher
	queue     string
	log       Logger
}

// NewAMQPSender создает AMQPSender
func NewAMQPSender(publisher Publisher, queue string, log Logger) *AMQPSender {
	return &AMQPSender{publisher: publisher, queue: queue, log: log}
}

// Send рендерит шаблон и публикует письмо (persistent)
func (s *AMQPSender) Send(ctx context.Context, kind TemplateKind, recipient string, data TemplateData) (bool, error) {
	if recipient == "" {
		return true, ErrNoRecipient
	}

	subject, body, err := Render(kind, data)
	if err != nil {
		return true, err
	}

	payload, err := json.Marshal(QueuedEmail{
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		return true, fmt.Errorf("%w: encode message: %v", ErrPublish, err)
	}

	message := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp091.Persistent,
		Headers: amqp091.Table{
			"message_type": "JSON",
			"email_kind":   string(kind),
		},
	}

	if err := s.publisher.PublishWithContext(ctx, "", s.queue, false, false, message); err != nil {
		return true, fmt.Errorf("%w: queue=%s: %v", ErrPublish, s.queue, err)
	}

	s.log.Info("Email %s for %s queued to %s", kind, recipient, s.queue)
	return true, nil
}

// Noop отправка писем не настроена
type Noop struct{}

// Send ничего не отправляет
func (Noop) Send(context.Context, TemplateKind, string, TemplateData) (bool, error) {
	return false, nil
}
