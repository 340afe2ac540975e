package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rabbitmq/amqp091-go"

	"github.com/BECOF-Cons/becof-website-sub000/internal/config"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/mailer"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
)

// Воркер очереди писем: читает сообщения, опубликованные сервисом при mailer.driver = "amqp",
// и отправляет их через SMTP
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfg.Mailer.AMQP.URL == "" || cfg.Mailer.SMTP.Host == "" {
		log.Fatal("Mail worker requires mailer.amqp.url and mailer.smtp.host")
	}

	conn, err := amqp091.Dial(cfg.Mailer.AMQP.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open RabbitMQ channel: %v", err)
	}
	defer ch.Close()

	queue := cfg.Mailer.AMQP.Queue
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.Fatal("Failed to declare queue %s: %v", queue, err)
	}

	// По одному письму на воркер: SMTP медленный, остальное ждёт в очереди
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatal("Failed to set QoS: %v", err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatal("Failed to start consuming from %s: %v", queue, err)
	}

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.Mailer.SMTP.Host,
		Port:     cfg.Mailer.SMTP.Port,
		Username: cfg.Mailer.SMTP.Username,
		Password: cfg.Mailer.SMTP.Password,
		From:     cfg.Mailer.SMTP.From,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Mail worker started (queue=%s, smtp=%s:%d)", queue, cfg.Mailer.SMTP.Host, cfg.Mailer.SMTP.Port)

	err = mailer.NewWorker(sender, log).Run(ctx, deliveries)
	if err != nil && err != context.Canceled {
		log.Error("Mail worker stopped: %v", err)
	}

	log.Info("Mail worker exited")
}
