package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

// Deliverer отправка готового письма
type Deliverer interface {
	Deliver(ctx context.Context, recipient, subject, body string) error
}

// Worker читает очередь писем и отправляет их через SMTP
// Неразбираемые сообщения отбрасываются, ошибки SMTP возвращают сообщение в очередь
type Worker struct {
	deliverer Deliverer
	log       Logger
}

// NewWorker создает Worker
func NewWorker(deliverer Deliverer, log Logger) *Worker {
	return &Worker{deliverer: deliverer, log: log}
}

// Run обрабатывает deliveries до закрытия канала или отмены ctx
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp091.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp091.Delivery) {
	err := w.Process(ctx, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrInvalidMessage):
		w.log.Error("Mail worker: dropping message: %v", err)
		_ = d.Nack(false, false)
	default:
		w.log.Warn("Mail worker: delivery failed, requeueing: %v", err)
		_ = d.Nack(false, !d.Redelivered)
	}
}

// Process отправляет одно сообщение из очереди
func (w *Worker) Process(ctx context.Context, body []byte) error {
	var email QueuedEmail
	if err := json.Unmarshal(body, &email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if email.Recipient == "" {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, ErrNoRecipient)
	}

	if err := w.deliverer.Deliver(ctx, email.Recipient, email.Subject, email.Body); err != nil {
		return err
	}

	w.log.Info("Mail worker: email %s sent to %s", email.Kind, email.Recipient)
	return nil
}
